package outbound

import (
	"context"

	"github.com/jamieforrest/speakyer-proc/domain"
)

// AudioReassemblerPort joins fragments in the given order into one file under workDir
// and returns its path.
type AudioReassemblerPort interface {
	Reassemble(ctx context.Context, workDir string, fragments []domain.AudioFragment) (string, error)
}
