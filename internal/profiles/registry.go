// Package profiles loads the system prompt document and indexes its
// profiles under the external model identifiers.
package profiles

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"clillm/internal/core"
)

//go:embed system_prompts.json
var defaultDocument []byte

// Content is the role/instruction block of a profile. Every field is optional;
// absent fields serialize as null.
type Content struct {
	Role        *string `json:"ROLE"`
	Commands    []any   `json:"Commands"`
	Description *string `json:"Description of function command"`
	Tips        *string `json:"Additional TIPS"`
}

// Metadata describes a profile. Every field is required.
type Metadata struct {
	Description string  `json:"description"`
	Temperature float64 `json:"temperature"`
	ModelName   string  `json:"model_name"`
}

// Profile is one family entry of the document
type Profile struct {
	Content  Content
	Metadata Metadata
}

// alias registers a family profile under an external model identifier
type alias struct {
	id     string
	family core.Family
}

// aliases is the static alias table. The coder profile is shared by two identifiers.
var aliases = []alias{
	{id: "deepseek-coder", family: core.FamilyCoder},
	{id: "deepseek-v3", family: core.FamilyCoder},
	{id: "deepseek-chat", family: core.FamilyChat},
	{id: "deepseek-creative", family: core.FamilyCreative},
}

// familyAlias is the identifier used to look up a family's profile
var familyAlias = map[core.Family]string{
	core.FamilyCoder:    "deepseek-coder",
	core.FamilyChat:     "deepseek-chat",
	core.FamilyCreative: "deepseek-creative",
}

// Index maps external model identifiers to serialized profile content and temperature.
// It is immutable after Load.
type Index struct {
	profiles     map[core.Family]Profile
	roles        map[string]string
	temperatures map[string]float64
	fingerprint  uint64
}

// LoadDefault builds the index from the document embedded in the binary.
func LoadDefault() (*Index, error) {
	return Load(defaultDocument)
}

// LoadFile builds the index from a document on disk.
func LoadFile(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.NewConfigMissingError(path, err)
	}
	return Load(data)
}

// Load parses doc and builds the alias index. The document must contain
// the coder, chat and creative entries, each with content and complete metadata.
// Nothing is loaded partially.
func Load(doc []byte) (*Index, error) {
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(doc, &entries); err != nil {
		return nil, core.NewConfigMalformedError("system prompts", err)
	}
	if entries == nil {
		return nil, core.NewConfigMalformedError("system prompts: document is not an object", nil)
	}

	profiles := make(map[core.Family]Profile, len(core.Families))
	for _, family := range core.Families {
		raw, ok := entries[string(family)]
		if !ok {
			return nil, core.NewConfigMalformedError(fmt.Sprintf("system prompts: missing entry %q", family), nil)
		}
		p, err := parseProfile(raw)
		if err != nil {
			return nil, core.NewConfigMalformedError(fmt.Sprintf("system prompts: entry %q: %s", family, err), nil)
		}
		profiles[family] = p
	}

	idx := &Index{
		profiles:     profiles,
		roles:        make(map[string]string, len(aliases)),
		temperatures: make(map[string]float64, len(aliases)),
		fingerprint:  xxhash.Sum64(doc),
	}
	for _, a := range aliases {
		p := profiles[a.family]
		role, err := json.Marshal(p.Content)
		if err != nil {
			return nil, core.NewConfigMalformedError(fmt.Sprintf("system prompts: entry %q", a.family), err)
		}
		idx.roles[a.id] = string(role)
		idx.temperatures[a.id] = p.Metadata.Temperature
	}
	return idx, nil
}

// parseProfile decodes one entry and checks the required fields.
func parseProfile(raw json.RawMessage) (Profile, error) {
	var entry struct {
		Content  *Content `json:"content"`
		Metadata *struct {
			Description *string  `json:"description"`
			Temperature *float64 `json:"temperature"`
			ModelName   *string  `json:"model_name"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal(raw, &entry); err != nil {
		return Profile{}, err
	}

	switch {
	case entry.Content == nil:
		return Profile{}, fmt.Errorf("missing content")
	case entry.Metadata == nil:
		return Profile{}, fmt.Errorf("missing metadata")
	case entry.Metadata.Description == nil:
		return Profile{}, fmt.Errorf("missing metadata.description")
	case entry.Metadata.Temperature == nil:
		return Profile{}, fmt.Errorf("missing metadata.temperature")
	case entry.Metadata.ModelName == nil:
		return Profile{}, fmt.Errorf("missing metadata.model_name")
	}

	return Profile{
		Content: *entry.Content,
		Metadata: Metadata{
			Description: *entry.Metadata.Description,
			Temperature: *entry.Metadata.Temperature,
			ModelName:   *entry.Metadata.ModelName,
		},
	}, nil
}

// Role returns the serialized profile content registered under id.
func (i *Index) Role(id string) (string, bool) {
	role, ok := i.roles[id]
	return role, ok
}

// Temperature returns the temperature registered under id.
func (i *Index) Temperature(id string) (float64, bool) {
	t, ok := i.temperatures[id]
	return t, ok
}

// Profile returns the parsed profile of a family.
func (i *Index) Profile(f core.Family) (Profile, bool) {
	p, ok := i.profiles[f]
	return p, ok
}

// IDs returns every registered identifier in table order.
func (i *Index) IDs() []string {
	ids := make([]string, 0, len(aliases))
	for _, a := range aliases {
		ids = append(ids, a.id)
	}
	return ids
}

// Fingerprint is a stable hash of the loaded document, for logs.
func (i *Index) Fingerprint() string {
	return strconv.FormatUint(i.fingerprint, 16)
}

// FamilyID returns the identifier whose profile serves the given family.
func FamilyID(f core.Family) string {
	return familyAlias[f]
}
