package core

// Family is one of the three prompt profile families.
type Family string

const (
	FamilyCoder    Family = "coder"
	FamilyChat     Family = "chat"
	FamilyCreative Family = "creative"
)

// Families lists every family in document order.
var Families = []Family{FamilyCoder, FamilyChat, FamilyCreative}

// ModelVariant is one of six closed model selections: a family plus an
// optional reasoning mode. The zero value is not a valid variant.
type ModelVariant struct {
	family    Family
	reasoning bool
}

var (
	Coder             = ModelVariant{family: FamilyCoder}
	Chat              = ModelVariant{family: FamilyChat}
	Creative          = ModelVariant{family: FamilyCreative}
	CoderReasoning    = ModelVariant{family: FamilyCoder, reasoning: true}
	ChatReasoning     = ModelVariant{family: FamilyChat, reasoning: true}
	CreativeReasoning = ModelVariant{family: FamilyCreative, reasoning: true}
)

// variantTokens maps the accepted CLI tokens to variants. Matching is exact.
var variantTokens = map[string]ModelVariant{
	"coder":      Coder,
	"chat":       Chat,
	"creative":   Creative,
	"coder-R":    CoderReasoning,
	"chat-R":     ChatReasoning,
	"creative-R": CreativeReasoning,
}

// ParseModelVariant resolves a user token to a variant.
// Unknown tokens, including case variations, fail with KindUnsupportedModel.
func ParseModelVariant(token string) (ModelVariant, error) {
	v, ok := variantTokens[token]
	if !ok {
		return ModelVariant{}, NewUnsupportedModelError(token)
	}
	return v, nil
}

// Family returns the prompt profile family of the variant.
func (v ModelVariant) Family() Family {
	return v.family
}

// Reasoning reports whether the variant targets the reasoning model.
func (v ModelVariant) Reasoning() bool {
	return v.reasoning
}

// String returns the CLI token for the variant.
func (v ModelVariant) String() string {
	if v.reasoning {
		return string(v.family) + "-R"
	}
	return string(v.family)
}

// IsValid reports whether v is one of the six known variants.
func (v ModelVariant) IsValid() bool {
	return v.family != ""
}
