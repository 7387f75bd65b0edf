package catalog

// Fallback model identifiers per task family. Selection falls back to these
// when a reasoning pass cannot produce a usable pick.
const (
	DefaultTextModel   = "grok-2-1212"
	DefaultImageModel  = "gemini-2.0-flash-preview-image-generation"
	DefaultVideoModel  = "runway-gen-3"
	DefaultAvatarModel = "heygen-avatar-v2"
)

// DefaultCapabilities is the built-in model catalog.
func DefaultCapabilities() []Capability {
	return []Capability{
		// Text generation
		{
			Model:        "grok-2-1212",
			Provider:     ProviderXAI,
			Strengths:    []string{"reasoning", "analysis", "real-time_data", "conversational", "startup_context"},
			UseCases:     []string{"founder_updates", "business_analysis", "strategic_content", "market_insights"},
			QualityScore: 9,
		},
		{
			Model:        "claude-3-5-sonnet",
			Provider:     ProviderAnthropic,
			Strengths:    []string{"writing_quality", "structured_content", "professional_tone", "editing"},
			UseCases:     []string{"blog_posts", "documentation", "formal_content", "technical_writing"},
			QualityScore: 9,
		},
		{
			Model:        "gpt-4o",
			Provider:     ProviderOpenAI,
			Strengths:    []string{"versatility", "creativity", "social_media", "marketing_copy"},
			UseCases:     []string{"linkedin_posts", "creative_content", "marketing", "general_writing"},
			QualityScore: 8,
		},

		// Image generation
		{
			Model:        "gemini-2.0-flash-preview-image-generation",
			Provider:     ProviderGemini,
			Strengths:    []string{"infographics", "data_visualization", "professional_design", "business_graphics"},
			UseCases:     []string{"business_infographics", "data_charts", "professional_visuals", "presentations"},
			QualityScore: 8,
		},
		{
			Model:        "dall-e-3",
			Provider:     ProviderOpenAI,
			Strengths:    []string{"artistic_quality", "detailed_prompts", "creative_concepts", "photorealism"},
			UseCases:     []string{"creative_visuals", "artistic_content", "detailed_scenes", "marketing_images"},
			QualityScore: 9,
		},
		{
			Model:        "midjourney-v6",
			Provider:     ProviderMidjourney,
			Strengths:    []string{"cinematic", "artistic", "aesthetic_quality", "style_consistency"},
			UseCases:     []string{"cinematic_shots", "artistic_visuals", "brand_imagery", "high_end_design"},
			QualityScore: 10,
		},
		{
			Model:        "stable-diffusion-xl",
			Provider:     ProviderStability,
			Strengths:    []string{"customization", "technical_control", "batch_generation", "cost_effective"},
			UseCases:     []string{"bulk_generation", "custom_training", "technical_imagery", "variations"},
			QualityScore: 7,
		},

		// Video generation
		{
			Model:        "runway-gen-3",
			Provider:     ProviderRunway,
			Strengths:    []string{"cinematic_video", "realistic_motion", "text_overlays", "professional_quality"},
			UseCases:     []string{"explainer_videos", "product_demos", "cinematic_content", "marketing_videos"},
			QualityScore: 9,
		},
		{
			Model:        "heygen-avatar-v2",
			Provider:     ProviderHeyGen,
			Strengths:    []string{"avatar_presenter", "fast_turnaround", "talking_head", "script_narration"},
			UseCases:     []string{"founder_updates", "product_announcements", "social_videos", "explainer_videos"},
			QualityScore: 8,
		},
	}
}

// DefaultRegistry builds the registry over the built-in catalog.
func DefaultRegistry() *Registry {
	return NewRegistry(DefaultCapabilities())
}
