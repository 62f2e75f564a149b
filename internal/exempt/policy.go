// Package exempt decides which teacher accounts bypass subscription and
// quota checks entirely. The set is deployment configuration: it is loaded
// once at startup and never mutated by application flow.
package exempt

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Policy is queried by the entitlement gate, the sweeper, and the
// enrollment check. Implementations must be safe for concurrent use.
type Policy interface {
	// IsExempt reports whether the account bypasses all checks.
	IsExempt(teacherID uuid.UUID) bool
	// FreeTeacherID is the designated always-free exempt teacher whose
	// enrollments never count against a student's teacher allowance.
	// Returns uuid.Nil when none is configured.
	FreeTeacherID() uuid.UUID
}

type allowlistFile struct {
	ExemptTeachers []string `json:"exempt_teachers"`
	FreeTeacher    string   `json:"free_teacher"`
}

// Allowlist is the static Policy implementation.
type Allowlist struct {
	mu   sync.RWMutex
	ids  map[uuid.UUID]struct{}
	free uuid.UUID
}

func NewAllowlist(ids []uuid.UUID, free uuid.UUID) *Allowlist {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	if free != uuid.Nil {
		set[free] = struct{}{}
	}
	return &Allowlist{ids: set, free: free}
}

// LoadFromFile reads the deploy-time allowlist JSON.
func LoadFromFile(path string) (*Allowlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read exempt accounts config: %w", err)
	}

	var file allowlistFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse exempt accounts config: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(file.ExemptTeachers))
	for _, raw := range file.ExemptTeachers {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("invalid exempt teacher id %q: %w", raw, err)
		}
		ids = append(ids, id)
	}

	free := uuid.Nil
	if file.FreeTeacher != "" {
		free, err = uuid.Parse(strings.TrimSpace(file.FreeTeacher))
		if err != nil {
			return nil, fmt.Errorf("invalid free teacher id %q: %w", file.FreeTeacher, err)
		}
	}

	return NewAllowlist(ids, free), nil
}

// ParseCSV builds an allowlist from a comma-separated env value, used when
// no config file is present.
func ParseCSV(csv string, freeTeacher string) (*Allowlist, error) {
	var ids []uuid.UUID
	for _, part := range strings.Split(csv, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.Parse(part)
		if err != nil {
			return nil, fmt.Errorf("invalid exempt teacher id %q: %w", part, err)
		}
		ids = append(ids, id)
	}

	free := uuid.Nil
	if freeTeacher = strings.TrimSpace(freeTeacher); freeTeacher != "" {
		var err error
		free, err = uuid.Parse(freeTeacher)
		if err != nil {
			return nil, fmt.Errorf("invalid free teacher id %q: %w", freeTeacher, err)
		}
	}

	return NewAllowlist(ids, free), nil
}

func (a *Allowlist) IsExempt(teacherID uuid.UUID) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, ok := a.ids[teacherID]
	return ok
}

func (a *Allowlist) FreeTeacherID() uuid.UUID {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.free
}

// Size returns the number of allowlisted accounts, for startup logging.
func (a *Allowlist) Size() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.ids)
}
