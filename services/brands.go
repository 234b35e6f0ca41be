package services

import (
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strings"

	"github.com/sharad-mishra/bharat-lens/models"
)

// BrandService orchestrates the brand enrichment pipeline: it asks Gemini
// for a structured comparison, augments it with Exa search results and
// guarantees every brand ends up with a website
type BrandService struct {
	gemini *GeminiService
	exa    *ExaService
}

// Fenced JSON code block in an LLM response
var fencedJSONPattern = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// NewBrandService creates a new brand service instance
func NewBrandService() *BrandService {
	return &BrandService{
		gemini: NewGeminiService(),
		exa:    NewExaService(),
	}
}

// Search runs the full enrichment pipeline for one query. Any provider or
// parse failure aborts the whole request, no partial results are returned.
func (b *BrandService) Search(query string) (*models.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrQueryRequired
	}

	// Both provider keys are required before any network call is made
	if !b.gemini.IsAvailable() || !b.exa.IsAvailable() {
		return nil, ErrKeysNotConfigured
	}

	exaWebsites := b.fetchAugmentation(query)

	prompt := buildBrandPrompt(query)

	content, err := b.gemini.GenerateContent(prompt)
	if err != nil {
		return nil, err
	}

	result, err := parseBrandComparison(content)
	if err != nil {
		return nil, err
	}

	b.assignWebsites(result, exaWebsites)

	log.Printf("Brands with websites assigned: indian=%d global=%d",
		len(result.IndianBrands), len(result.GlobalBrands))

	return result, nil
}

// fetchAugmentation runs the Exa lookup as a best-effort step. Failures are
// logged and the pipeline continues with an empty map; this is the only
// external call allowed to degrade instead of aborting the request.
func (b *BrandService) fetchAugmentation(query string) map[string]string {
	websites, err := b.exa.FindBrandWebsites(query)
	if err != nil {
		log.Printf("Exa API error: %v", err)
		AugmentationFailures.Inc()
		return map[string]string{}
	}

	log.Printf("Exa found %d brand websites", len(websites))
	return websites
}

// buildBrandPrompt builds the fixed comparison prompt for one query
func buildBrandPrompt(query string) string {
	return fmt.Sprintf(`List 3 Indian and 3 global brands for: %s

Return only this JSON structure:
{
  "summary": "One sentence comparison",
  "indianBrands": [{"name": "Brand", "description": "Brief desc", "pros": ["pro1"], "cons": ["con1"]}],
  "globalBrands": [{"name": "Brand", "description": "Brief desc", "pros": ["pro1"], "cons": ["con1"]}]
}`, query)
}

// parseBrandComparison extracts JSON from the model output, preferring a
// fenced code block if one is present
func parseBrandComparison(content string) (*models.SearchResult, error) {
	jsonStr := content
	if match := fencedJSONPattern.FindStringSubmatch(content); match != nil {
		jsonStr = match[1]
	}

	var result models.SearchResult
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseAIResponse, err)
	}

	return &result, nil
}

// assignWebsites fills in the website for every brand in both categories
func (b *BrandService) assignWebsites(result *models.SearchResult, exaWebsites map[string]string) {
	for i := range result.IndianBrands {
		result.IndianBrands[i].Website = resolveWebsite(result.IndianBrands[i], exaWebsites)
	}
	for i := range result.GlobalBrands {
		result.GlobalBrands[i].Website = resolveWebsite(result.GlobalBrands[i], exaWebsites)
	}
}

// resolveWebsite picks a website for one brand with strict priority:
// the AI-provided URL, then an Exa keyword match, then the static fallback
func resolveWebsite(brand models.Brand, exaWebsites map[string]string) string {
	// Priority 1: AI provided website
	if strings.HasPrefix(brand.Website, "http") {
		return brand.Website
	}

	// Priority 2: Exa search results matched by keyword. Map iteration
	// order is random, so sort the keywords to keep the chosen domain
	// stable when a name matches more than one.
	brandNameLower := strings.ToLower(brand.Name)
	keywords := make([]string, 0, len(exaWebsites))
	for keyword := range exaWebsites {
		keywords = append(keywords, keyword)
	}
	sort.Strings(keywords)

	for _, keyword := range keywords {
		if strings.Contains(brandNameLower, keyword) {
			return exaWebsites[keyword]
		}
	}

	// Priority 3: manual mapping fallback
	return GetWebsiteForBrand(brand.Name)
}

// KeyStatus reports whether the two required provider keys are configured
func (b *BrandService) KeyStatus() models.TestKeyStatus {
	return models.TestKeyStatus{
		HasGeminiKey: b.gemini.IsAvailable(),
		HasExaKey:    b.exa.IsAvailable(),
	}
}

// GetStatus returns the current status of the brand service
func (b *BrandService) GetStatus() map[string]interface{} {
	return map[string]interface{}{
		"status": "active",
		"providers": map[string]interface{}{
			"gemini": b.gemini.GetStatus(),
			"exa":    b.exa.GetStatus(),
		},
	}
}
