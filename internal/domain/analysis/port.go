package analysis

import (
	"context"
	"io"
	"time"
)

// Vision is the provider-facing port: push a local file to the provider, then
// ask the model to describe it.
type Vision interface {
	UploadFile(ctx context.Context, localPath, mimeType string) (RemoteFile, error)
	Describe(ctx context.Context, file RemoteFile, instruction string) (string, error)
}

// UploadStore owns the lifetime of files accepted by the multipart intake.
type UploadStore interface {
	Save(r io.Reader, originalName string, now time.Time) (string, error)
	Remove(path string) error
}

// InstructionSource serves the effective extraction instruction.
type InstructionSource interface {
	Instruction() string
}
