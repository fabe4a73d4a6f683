package analysis

import (
	"context"
	"io"
	"log"
	"time"

	domain "github.com/vehiscan/odometer-api/internal/domain/analysis"
)

// Service implements the analyze use-cases: take a local image, push it to
// the provider, run inference, shape the reply.
// Service is designed to be used concurrently and is thread-safe.
type Service struct {
	Vision  domain.Vision
	Uploads domain.UploadStore
	Prompts domain.InstructionSource
	Clock   Clock
}

// Clock abstraction so the upload naming is testable.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Analyze runs the full chain for a file already on local disk. The returned
// string is the response envelope as JSON. The caller's file is not removed.
func (s *Service) Analyze(ctx context.Context, req domain.Request) (string, error) {
	instruction := req.Instruction
	if instruction == "" {
		instruction = s.Prompts.Instruction()
	}

	remote, err := s.Vision.UploadFile(ctx, req.FilePath, req.MIMEType)
	if err != nil {
		return "", err
	}

	reply, err := s.Vision.Describe(ctx, remote, instruction)
	if err != nil {
		return "", err
	}

	envelope, ok := domain.Normalize(reply)
	if !ok {
		// Unusable content is a logical error, not a transport failure.
		log.Printf("analysis: model reply did not parse as JSON: %.200q", reply)
	}
	return envelope, nil
}

// AnalyzeUpload stores an uploaded image in the uploads directory, analyzes
// it and removes the stored file on every exit path.
func (s *Service) AnalyzeUpload(ctx context.Context, r io.Reader, originalName, mimeType, instruction string) (string, error) {
	path, err := s.Uploads.Save(r, originalName, s.Clock.Now())
	if err != nil {
		return "", err
	}
	defer func() {
		if err := s.Uploads.Remove(path); err != nil {
			log.Printf("analysis: remove uploaded file %s: %v", path, err)
		}
	}()

	return s.Analyze(ctx, domain.Request{
		FilePath:    path,
		MIMEType:    mimeType,
		Instruction: instruction,
	})
}
