package prompt

import (
	"os"
	"strings"
	"sync"
)

// defaultInstruction is sent to the model when the caller supplies no
// userMessage and no prompt file is configured.
const defaultInstruction = "Analyze the input image and extract the total odometer reading. Return the result in the following JSON format:{ 'total_km': 'The odo number' }"

// Store serves the effective extraction instruction. A configured prompt file
// overrides the built-in default and can be hot-reloaded (see Watch).
type Store struct {
	mu   sync.RWMutex
	text string
}

func NewStore() *Store {
	return &Store{text: defaultInstruction}
}

// Instruction implements analysis.InstructionSource.
func (s *Store) Instruction() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.text
}

// LoadFile replaces the instruction with the contents of path. A blank file
// falls back to the default instruction.
func (s *Store) LoadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	s.set(string(b))
	return nil
}

func (s *Store) set(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		text = defaultInstruction
	}
	s.mu.Lock()
	s.text = text
	s.mu.Unlock()
}
