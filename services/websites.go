package services

import (
	"fmt"
	"regexp"
	"strings"
)

// websiteRule maps a brand-name substring to an official website.
// Rules are checked in order, first match wins.
type websiteRule struct {
	keyword string
	website string
}

// Known brand websites, ordered so earlier entries win ties
var brandWebsiteRules = []websiteRule{
	{"samsung", "https://www.samsung.com"},
	{"apple", "https://www.apple.com"},
	{"xiaomi", "https://www.mi.com"},
	{"oneplus", "https://www.oneplus.com"},
	{"realme", "https://www.realme.com"},
	{"vivo", "https://www.vivo.com"},
	{"oppo", "https://www.oppo.com"},
	{"huawei", "https://www.huawei.com"},
	{"google", "https://store.google.com"},
	{"sony", "https://www.sony.com"},
	{"lava", "https://www.lavamobiles.com"},
	{"micromax", "https://www.micromaxinfo.com"},
	{"karbonn", "https://www.karbonnmobiles.com"},
	{"jio", "https://www.jio.com"},
	{"reliance", "https://www.ril.com"},
	{"tata", "https://www.tata.com"},
	{"mahindra", "https://www.mahindra.com"},
	{"bajaj", "https://www.bajaj.com"},
	{"hero", "https://www.heromotocorp.com"},
	{"maruti", "https://www.marutisuzuki.com"},
	{"hyundai", "https://www.hyundai.com"},
	{"honda", "https://www.honda.com"},
	{"toyota", "https://www.toyota.com"},
	{"ford", "https://www.ford.com"},
	{"bmw", "https://www.bmw.com"},
	{"mercedes", "https://www.mercedes-benz.com"},
	{"audi", "https://www.audi.com"},
	{"tesla", "https://www.tesla.com"},
	{"nike", "https://www.nike.com"},
	{"adidas", "https://www.adidas.com"},
	{"puma", "https://www.puma.com"},
	{"reebok", "https://www.reebok.com"},
}

var nonAlphanumericPattern = regexp.MustCompile(`[^a-z0-9]`)

// GetWebsiteForBrand resolves a brand name to a plausible official website.
// Used as the last-resort fallback, so it always returns a URL: unknown
// names get a synthesized https://www.<name>.com address.
func GetWebsiteForBrand(brandName string) string {
	name := strings.ToLower(brandName)

	for _, rule := range brandWebsiteRules {
		if strings.Contains(name, rule.keyword) {
			return rule.website
		}
	}

	// Generate a reasonable website URL based on the brand name
	cleanName := nonAlphanumericPattern.ReplaceAllString(name, "")
	if len(cleanName) > 20 {
		cleanName = cleanName[:20]
	}

	return fmt.Sprintf("https://www.%s.com", cleanName)
}
