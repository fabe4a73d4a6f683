package analysis

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"

	domain "github.com/vehiscan/odometer-api/internal/domain/analysis"
)

type fakeVision struct {
	reply       string
	uploadErr   error
	describeErr error

	uploadedPath string
	instruction  string
}

func (f *fakeVision) UploadFile(ctx context.Context, localPath, mimeType string) (domain.RemoteFile, error) {
	f.uploadedPath = localPath
	if f.uploadErr != nil {
		return domain.RemoteFile{}, f.uploadErr
	}
	return domain.RemoteFile{URI: "files/abc123", MIMEType: mimeType}, nil
}

func (f *fakeVision) Describe(ctx context.Context, file domain.RemoteFile, instruction string) (string, error) {
	f.instruction = instruction
	if f.describeErr != nil {
		return "", f.describeErr
	}
	return f.reply, nil
}

type fakeStore struct {
	saved   []string
	removed []string
	saveErr error
}

func (f *fakeStore) Save(r io.Reader, originalName string, now time.Time) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	path := "uploads/" + originalName
	f.saved = append(f.saved, path)
	return path, nil
}

func (f *fakeStore) Remove(path string) error {
	f.removed = append(f.removed, path)
	return nil
}

type fixedPrompt string

func (p fixedPrompt) Instruction() string { return string(p) }

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

func newService(vision *fakeVision, store *fakeStore) *Service {
	return &Service{
		Vision:  vision,
		Uploads: store,
		Prompts: fixedPrompt("read the odometer"),
		Clock:   fixedClock(time.Unix(1700000000, 0)),
	}
}

func TestAnalyzeUsesDefaultInstruction(t *testing.T) {
	vision := &fakeVision{reply: `{"total_km":"45231"}`}
	svc := newService(vision, &fakeStore{})

	out, err := svc.Analyze(context.Background(), domain.Request{FilePath: "dash.jpg", MIMEType: "image/jpeg"})
	assert.NoError(t, err)
	assert.Equal(t, "read the odometer", vision.instruction)
	assert.Equal(t, "45231", gjson.Get(out, "total_km").String())
}

func TestAnalyzeCallerInstructionWins(t *testing.T) {
	vision := &fakeVision{reply: `{}`}
	svc := newService(vision, &fakeStore{})

	_, err := svc.Analyze(context.Background(), domain.Request{
		FilePath:    "dash.jpg",
		MIMEType:    "image/jpeg",
		Instruction: "how many km?",
	})
	assert.NoError(t, err)
	assert.Equal(t, "how many km?", vision.instruction)
}

func TestAnalyzeUnparseableReplyIsNotAnError(t *testing.T) {
	vision := &fakeVision{reply: "sorry, I cannot read this image"}
	svc := newService(vision, &fakeStore{})

	out, err := svc.Analyze(context.Background(), domain.Request{FilePath: "dash.jpg", MIMEType: "image/jpeg"})
	assert.NoError(t, err)
	assert.Equal(t, "error", gjson.Get(out, "status").String())
	assert.Equal(t, "Invalid response format", gjson.Get(out, "message").String())
}

func TestAnalyzeUploadRemovesFileOnSuccess(t *testing.T) {
	store := &fakeStore{}
	svc := newService(&fakeVision{reply: `{"total_km":"1"}`}, store)

	_, err := svc.AnalyzeUpload(context.Background(), strings.NewReader("img"), "dash.jpg", "image/jpeg", "")
	assert.NoError(t, err)
	assert.Equal(t, store.saved, store.removed)
}

func TestAnalyzeUploadRemovesFileOnProviderFailure(t *testing.T) {
	store := &fakeStore{}
	svc := newService(&fakeVision{uploadErr: errors.New("boom")}, store)

	_, err := svc.AnalyzeUpload(context.Background(), strings.NewReader("img"), "dash.jpg", "image/jpeg", "")
	assert.Error(t, err)
	assert.Equal(t, store.saved, store.removed)
}

func TestAnalyzeUploadSaveFailure(t *testing.T) {
	store := &fakeStore{saveErr: errors.New("disk full")}
	vision := &fakeVision{reply: `{}`}
	svc := newService(vision, store)

	_, err := svc.AnalyzeUpload(context.Background(), strings.NewReader("img"), "dash.jpg", "image/jpeg", "")
	assert.Error(t, err)
	assert.Empty(t, vision.uploadedPath)
	assert.Empty(t, store.removed)
}
