package services

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/rand"
	"regexp"
	"time"

	"astranode/internal/domain"

	"golang.org/x/crypto/sha3"
)

// Extraction is what a PromptAnalyzer pulls out of a free-text prompt.
type Extraction struct {
	Name           string
	Price          string
	EnhancedPrompt string
}

// PromptAnalyzer turns a user prompt into mint-ready metadata fields.
// The built-in RegexAnalyzer is a stand-in; a real model client can be
// substituted without touching the registry.
type PromptAnalyzer interface {
	Analyze(prompt string) Extraction
}

var (
	reName  = regexp.MustCompile(`(?i)(?:name|named)\s+([a-zA-Z0-9_]+)`)
	rePrice = regexp.MustCompile(`(?i)(?:price|cost)\s+(\d+)`)
)

// RegexAnalyzer extracts "name X" / "price N" phrases from the prompt and
// wraps it in a canned cinematic enhancement.
type RegexAnalyzer struct{}

func (RegexAnalyzer) Analyze(prompt string) Extraction {
	name := fmt.Sprintf("Astra Art #%d", rand.Intn(1000))
	if m := reName.FindStringSubmatch(prompt); m != nil {
		name = m[1]
	}
	price := "100"
	if m := rePrice.FindStringSubmatch(prompt); m != nil {
		price = m[1]
	}
	enhanced := fmt.Sprintf("A hyper-realistic, cinematic masterpiece of %s, trending on ArtStation, 8k resolution, detailed textures, ethereal lighting, volumetric fog, masterpiece composition.", prompt)
	return Extraction{Name: name, Price: price, EnhancedPrompt: enhanced}
}

// Canned outputs of the fake image model.
var defaultImages = []string{
	"/assets/generated/cyberpunk_warrior.png",
	"/assets/generated/ethereal_landscape.png",
	"/assets/generated/cosmic_entity.png",
	"/assets/generated/neural_network.png",
}

const (
	agentName        = "Astra-Neural-v1"
	platformName     = "AstraNode Art"
	metadataCompiler = "AstraNode AI Engine"
	placeholderImage = "https://placeholder.com/art.png"
)

type StudioService struct {
	Analyzer PromptAnalyzer
	Images   []string
	// Latency simulates model inference time on Generate.
	Latency time.Duration
}

func NewStudioService(analyzer PromptAnalyzer) *StudioService {
	if analyzer == nil {
		analyzer = RegexAnalyzer{}
	}
	return &StudioService{Analyzer: analyzer, Images: defaultImages}
}

// Generate runs the analyzer over the prompt and picks a canned image.
func (s *StudioService) Generate(prompt string) domain.GenerateResult {
	ext := s.Analyzer.Analyze(prompt)
	if s.Latency > 0 {
		time.Sleep(s.Latency)
	}
	img := ""
	if len(s.Images) > 0 {
		img = s.Images[rand.Intn(len(s.Images))]
	}
	return domain.GenerateResult{
		ImageURL:       img,
		EnhancedPrompt: ext.EnhancedPrompt,
		ExtractedName:  ext.Name,
		ExtractedPrice: ext.Price,
		AgentName:      agentName,
	}
}

// BuildMetadata assembles the token metadata document. The digest is the
// keccak-256 of the document's canonical JSON (without the digest field),
// standing in for the IPFS CID a real deployment would pin.
func (s *StudioService) BuildMetadata(name, description, aiPrompt, modelVersion, imageURL string) domain.Metadata {
	if modelVersion == "" {
		modelVersion = "v1.0"
	}
	if imageURL == "" {
		imageURL = placeholderImage
	}
	md := domain.Metadata{
		Name:        name,
		Description: description,
		Image:       imageURL,
		Attributes: []domain.Attribute{
			{TraitType: "AI Prompt", Value: aiPrompt},
			{TraitType: "Model Version", Value: modelVersion},
			{TraitType: "Platform", Value: platformName},
		},
		Compiler: metadataCompiler,
	}
	md.Digest = digest(md)
	return md
}

func digest(md domain.Metadata) string {
	payload, _ := json.Marshal(md)
	h := sha3.NewLegacyKeccak256()
	h.Write(payload)
	return "0x" + hex.EncodeToString(h.Sum(nil))
}
