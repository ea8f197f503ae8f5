package processor

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/phambaophuc/multiscale/internal/models"
)

// Fingerprint identifies everything that influences the archive contents of a
// job: the resolved size, the naming inputs and every source in order.
func Fingerprint(job models.BatchJob, size models.Size, policy DuplicatePolicy) string {
	hash := sha256.New()

	fmt.Fprintf(hash, "size_%d_%d_density_%d_dup_%s\n", size.Width, size.Height, job.Density, policy)
	if job.Profile.IsCustom() {
		hash.Write([]byte("custom\n"))
	} else {
		fmt.Fprintf(hash, "device_%s\n", job.Profile.Device)
	}

	for _, img := range job.Images {
		sum := sha256.Sum256(img.Data)
		fmt.Fprintf(hash, "%q %x\n", img.Filename, sum)
	}

	return hex.EncodeToString(hash.Sum(nil))
}
