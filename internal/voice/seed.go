package voice

// SeedVoices returns the built-in voice catalog every session starts from.
// Each call returns fresh slices so callers may modify the result.
func SeedVoices() []Voice {
	return []Voice{
		{
			ID:          "1",
			Name:        "Riya Rao",
			Description: "Famous Customer Care Voice",
			Category:    "Conversational",
			SpeakerID:   "SPKR-Riya001",
			AudioID:     "AUD-RF245912",
			IsLegacy:    false,
			Tags:        []string{"Female", "Indian", "Customer Service", "Professional", "Clear"},
			Language:    "Hindi",
			CreatedAt:   "2023-08-15",
			RecentGenerations: []Generation{
				{ID: "gen1", Text: "नमस्ते, दीप लैब्स में आपका स्वागत है। मैं आपकी किस प्रकार सहायता कर सकती हूँ?", Date: "2 days ago"},
				{ID: "gen2", Text: "हमारी सहायता टीम से संपर्क करने के लिए धन्यवाद।", Date: "5 days ago"},
			},
		},
		{
			ID:          "2",
			Name:        "Netra",
			Description: "Husky Conversational Voice",
			Category:    "Social Media",
			SpeakerID:   "SPKR-Netra002",
			AudioID:     "AUD-NT187634",
			IsLegacy:    false,
			Tags:        []string{"Female", "Young", "Husky", "Casual", "Social"},
			Language:    "English (Indian)",
			CreatedAt:   "2023-09-22",
			RecentGenerations: []Generation{
				{ID: "gen3", Text: "Hey guys, welcome back to my channel!", Date: "1 day ago"},
			},
		},
		{
			ID:          "3",
			Name:        "Anjali",
			Description: "Professional narration voice",
			Category:    "Narration",
			SpeakerID:   "SPKR-Anjali003",
			AudioID:     "AUD-AN123456",
			IsLegacy:    false,
			Tags:        []string{"Female", "Indian", "Professional", "Calm", "Narration"},
			Language:    "Tamil",
			CreatedAt:   "2023-07-10",
			RecentGenerations: []Generation{
				{ID: "gen4", Text: "தொடக்கத்தில், ஆழத்தின் முகத்தில் இருள் இருந்தது.", Date: "2 months ago"},
			},
		},
		{
			ID:          "4",
			Name:        "Kabir",
			Description: "News reporter voice",
			Category:    "News",
			SpeakerID:   "SPKR-Kabir004",
			AudioID:     "AUD-KB789012",
			IsLegacy:    true,
			Tags:        []string{"Male", "Indian", "Authoritative", "News", "Clear"},
			Language:    "Marathi",
			CreatedAt:   "2023-04-18",
			RecentGenerations: []Generation{
				{ID: "gen6", Text: "ब्रेकिंग न्यूज: शास्त्रज्ञांनी क्वांटम कॉम्प्युटिंगमध्ये एक मोठी प्रगती केली आहे.", Date: "3 months ago"},
			},
		},
		{
			ID:          "5",
			Name:        "Vikram",
			Description: "Character voice with personality",
			Category:    "Characters",
			SpeakerID:   "SPKR-Vikram005",
			AudioID:     "AUD-VK345678",
			IsLegacy:    true,
			Tags:        []string{"Male", "Character", "Eccentric", "Animated", "Unique"},
			Language:    "Bengali",
			CreatedAt:   "2023-03-05",
			RecentGenerations: []Generation{
				{ID: "gen7", Text: "আরে, আমরা এখানে কী পেয়েছি? আরেকজন অ্যাডভেঞ্চারার?", Date: "5 months ago"},
			},
		},
		{
			ID:          "6",
			Name:        "Deepak",
			Description: "News anchor with deep tone",
			Category:    "News",
			SpeakerID:   "SPKR-Deepak006",
			AudioID:     "AUD-DP901234",
			IsLegacy:    true,
			Tags:        []string{"Male", "Deep", "Authoritative", "News", "Professional"},
			Language:    "Punjabi",
			CreatedAt:   "2023-02-20",
			RecentGenerations: []Generation{
				{ID: "gen8", Text: "ਸ਼ੁਭ ਸ਼ਾਮ, ਅੱਜ ਦੀ ਸਾਡੀ ਮੁੱਖ ਖ਼ਬਰ ਜਲਵਾਯੂ ਨੀਤੀ ਵਿੱਚ ਹਾਲੀਆ ਘਟਨਾਕ੍ਰਮ ਤੇ ਕੇਂਦ੍ਰਿਤ ਹੈ।", Date: "4 months ago"},
			},
		},
		{
			ID:          "7",
			Name:        "Priya",
			Description: "Soft spoken social media personality",
			Category:    "Social media",
			SpeakerID:   "SPKR-Priya007",
			AudioID:     "AUD-PR567890",
			IsLegacy:    false,
			Tags:        []string{"Female", "Young", "Soft", "Friendly", "Social"},
			Language:    "Telugu",
			CreatedAt:   "2023-07-12",
			RecentGenerations: []Generation{
				{ID: "gen9", Text: "హాయ్ అందరికీ! నేడు నేను నా ఉదయపు దినచర్యను మీ అందరితో పంచుకోవాలనుకుంటున్నాను.", Date: "1 month ago"},
			},
		},
		{
			ID:          "8",
			Name:        "Meera",
			Description: "Professional audiobook narrator",
			Category:    "Narration",
			SpeakerID:   "SPKR-Meera008",
			AudioID:     "AUD-MR123789",
			IsLegacy:    true,
			Tags:        []string{"Female", "Mature", "Professional", "Audiobook", "Expressive"},
			Language:    "Malayalam",
			CreatedAt:   "2023-01-15",
			RecentGenerations: []Generation{
				{ID: "gen10", Text: "അധ്യായം ഒന്ന്. പഴയ വീട് കുന്നിൻമുകളിൽ നിന്നു, സന്ധ്യാ ആകാശത്തിനെതിരെ ഒരു നിഴൽചിത്രമായി നിന്നു.", Date: "6 months ago"},
			},
		},
	}
}
