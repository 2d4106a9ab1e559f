package classify

import "strings"

// AssetType buckets a reusable phrase from prospect speech. These feed
// marketing copy, so they are informational only and carry no urgency.
type AssetType string

const (
	AssetIndustryTerm AssetType = "industry_term"
	AssetEmotional    AssetType = "emotional"
	AssetMetaphor     AssetType = "metaphor"
	AssetPowerWord    AssetType = "power_word"
)

var languageTables = []struct {
	assetType AssetType
	keywords  []string
}{
	{AssetIndustryTerm, []string{
		"funnel",
		"lead magnet",
		"upsell",
		"churn",
		"conversion rate",
		"retainer",
		"onboarding flow",
		"evergreen webinar",
		"cold outreach",
		"high ticket",
		"low ticket",
	}},
	{AssetMetaphor, []string{
		"like herding cats",
		"drinking from a firehose",
		"spinning plates",
		"hamster wheel",
		"treading water",
		"like pulling teeth",
		"feast or famine",
		"duct tape",
	}},
	{AssetEmotional, []string{
		"exhausted",
		"burned out",
		"burnt out",
		"anxious about",
		"stressed out",
		"excited about",
		"scared of losing",
		"relieved",
		"embarrassed",
	}},
	{AssetPowerWord, []string{
		"game changer",
		"game-changer",
		"no brainer",
		"no-brainer",
		"life saver",
		"lifesaver",
		"breakthrough",
		"effortless",
		"finally",
	}},
}

// ClassifyLanguageAsset maps a sentence to an asset type, first table
// wins. Returns false when no table matches or text is empty.
func ClassifyLanguageAsset(text string) (AssetType, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	lower := strings.ToLower(text)
	for _, table := range languageTables {
		if containsAnyKeyword(lower, table.keywords) {
			return table.assetType, true
		}
	}
	return "", false
}
