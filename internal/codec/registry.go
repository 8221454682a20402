package codec

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/kairosolo/kprefs/internal/domain"
)

type registryDoc struct {
	ActiveProfile string       `json:"activeProfile"`
	Profiles      []profileDoc `json:"profiles"`
	LastAccessed  int64        `json:"lastAccessed"`
}

type profileDoc struct {
	Name           string    `json:"name"`
	CreationDate   int64     `json:"creationDate"`
	LastAccessDate int64     `json:"lastAccessDate"`
	Metadata       *Document `json:"metadata,omitempty"`
}

// MarshalRegistry renders reg as JSON. Times are stored as ticks.
func MarshalRegistry(reg domain.Registry) ([]byte, error) {
	doc := registryDoc{
		ActiveProfile: reg.Active,
		Profiles:      make([]profileDoc, 0, len(reg.Profiles)),
		LastAccessed:  int64(domain.TicksOf(reg.LastAccessed)),
	}
	for _, p := range reg.Profiles {
		pd := profileDoc{
			Name:           p.Name,
			CreationDate:   int64(domain.TicksOf(p.Created)),
			LastAccessDate: int64(domain.TicksOf(p.LastAccess)),
		}
		if len(p.Metadata) > 0 {
			md, err := ToDocument(p.Metadata)
			if err != nil {
				return nil, fmt.Errorf("profile %q metadata: %w", p.Name, err)
			}
			pd.Metadata = &md
		}
		doc.Profiles = append(doc.Profiles, pd)
	}
	return json.Marshal(doc)
}

// UnmarshalRegistry parses MarshalRegistry output. Registries written
// without dates or metadata load with zero times and empty metadata.
// Invariants are not checked here.
func UnmarshalRegistry(data []byte, now time.Time) (domain.Registry, []error, error) {
	var doc registryDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.Registry{}, nil, fmt.Errorf("%w: registry: %v", domain.ErrParse, err)
	}

	reg := domain.Registry{
		Active:       doc.ActiveProfile,
		Profiles:     make([]domain.ProfileInfo, 0, len(doc.Profiles)),
		LastAccessed: domain.Ticks(doc.LastAccessed).Time(),
	}
	var warnings []error
	for _, pd := range doc.Profiles {
		info := domain.ProfileInfo{
			Name:       pd.Name,
			Created:    domain.Ticks(pd.CreationDate).Time(),
			LastAccess: domain.Ticks(pd.LastAccessDate).Time(),
			Metadata:   domain.Record{},
		}
		if pd.Metadata != nil {
			md, w := pd.Metadata.Record(now)
			info.Metadata = md
			for _, e := range w {
				warnings = append(warnings, fmt.Errorf("profile %q metadata: %w", pd.Name, e))
			}
		}
		reg.Profiles = append(reg.Profiles, info)
	}
	return reg, warnings, nil
}

// EncodeRegistry marshals and encrypts reg.
func (c *Codec) EncodeRegistry(reg domain.Registry) ([]byte, error) {
	plain, err := MarshalRegistry(reg)
	if err != nil {
		return nil, err
	}
	return c.Seal(plain)
}

// DecodeRegistry decrypts and parses a registry file.
func (c *Codec) DecodeRegistry(data []byte) (domain.Registry, []error, error) {
	plain, err := c.Open(data)
	if err != nil {
		return domain.Registry{}, nil, err
	}
	return UnmarshalRegistry(plain, c.now())
}
