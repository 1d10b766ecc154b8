package classify

import "github.com/agrimitra/advisory-gateway/pkg/models"

// Keyword tables are plain data consumed by one generic matcher, so new
// languages and categories are additive. Lists mix romanized Hindi,
// Devanagari, Marathi, and English the way farmers actually type.

// emotionCategories are tested in order; the first match wins.
var emotionCategories = []keywordCategory{
	{
		Name: models.EmotionWorried,
		Keywords: []string{
			"tension", "chinta", "darr", "kharab", "barbad", "nuksan",
			"problem", "worried", "scared", "loss", "khatam", "tabah",
			"pareshan", "mushkil", "dikkat", "dukhi", "rona", "mar",
			"fikar", "चिंता", "परेशान", "नुकसान", "बर्बाद",
		},
	},
	{
		Name: models.EmotionHappy,
		Keywords: []string{
			"khushi", "accha", "badhai", "maza", "profit", "faida",
			"happy", "great", "best", "wonderful", "dhanyawad", "shukriya",
			"खुशी", "अच्छा", "बधाई", "धन्यवाद",
		},
	},
	{
		Name: models.EmotionFrustrated,
		Keywords: []string{
			"kuch nahi", "thak gaya", "fed up", "koi fayda nahi",
			"frustrated", "pagal", "bakwas", "bekar",
			"थक", "बकवास", "बेकार",
		},
	},
}

// bargainingKeywords signal price-negotiation intent.
var bargainingKeywords = []string{
	"price", "rate", "bhav", "bhaav", "daam", "kimat", "keemat",
	"negotiate", "bargain", "mol", "bech", "sell", "becho", "kitna milega",
	"भाव", "दाम", "कीमत", "बेच", "विक", "किंमत",
}

// cropSynonyms maps canonical crop names to the regional names farmers
// use for them. Tested in order; the first matching crop wins.
var cropSynonyms = []keywordCategory{
	{Name: "onion", Keywords: []string{"onion", "pyaz", "pyaaz", "kanda", "प्याज", "कांदा"}},
	{Name: "tomato", Keywords: []string{"tomato", "tamatar", "टमाटर", "टोमॅटो"}},
	{Name: "potato", Keywords: []string{"potato", "aloo", "alu", "batata", "आलू", "बटाटा"}},
	{Name: "wheat", Keywords: []string{"wheat", "gehu", "gehun", "गेहूं", "गहू"}},
	{Name: "rice", Keywords: []string{"rice", "chawal", "dhan", "paddy", "चावल", "धान", "भात"}},
	{Name: "maize", Keywords: []string{"maize", "corn", "makka", "makai", "मक्का"}},
	{Name: "soybean", Keywords: []string{"soybean", "soyabean", "soya", "सोयाबीन"}},
	{Name: "cotton", Keywords: []string{"cotton", "kapas", "कपास", "कापूस"}},
	{Name: "sugarcane", Keywords: []string{"sugarcane", "ganna", "गन्ना", "ऊस"}},
	{Name: "grapes", Keywords: []string{"grapes", "angoor", "अंगूर", "द्राक्ष"}},
}

type keywordCategory struct {
	Name     string
	Keywords []string
}
