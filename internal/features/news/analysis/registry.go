// Package analysis extracts deal information, company and investor names,
// AI technology categories and a relevance score from news articles. All
// functions are pure and deterministic; the matching is keyword and
// regex driven, tuned for recall over precision.
package analysis

// CategoryDef is an AI technology category with its trigger keywords and
// scoring weight. Matching iterates definitions in declaration order.
type CategoryDef struct {
	Name     string
	Keywords []string
	Weight   float64
}

// Categories is the fixed category registry. Order matters: classification
// output and scoring both iterate it front to back.
var Categories = []CategoryDef{
	{
		Name: "generative_ai",
		Keywords: []string{"generative ai", "gpt", "claude", "gemini", "grok", "llm", "large language model",
			"text generation", "image generation", "diffusion", "transformer"},
		Weight: 1.0,
	},
	{
		Name: "machine_learning",
		Keywords: []string{"machine learning", "ml", "neural network", "deep learning", "training data",
			"model training", "supervised learning", "unsupervised learning"},
		Weight: 0.9,
	},
	{
		Name: "computer_vision",
		Keywords: []string{"computer vision", "object detection", "image recognition", "video analysis",
			"visual", "cv model", "vision transformer"},
		Weight: 0.85,
	},
	{
		Name: "nlp",
		Keywords: []string{"natural language", "nlp", "language model", "text analysis", "sentiment analysis",
			"voice", "speech recognition", "transcription"},
		Weight: 0.85,
	},
	{
		Name: "ai_infrastructure",
		Keywords: []string{"gpu", "tpu", "accelerator", "inference", "model serving", "mlops", "computational",
			"cloud compute", "distributed training", "vector database", "embedding"},
		Weight: 1.0,
	},
	{
		Name: "ai_agents",
		Keywords: []string{"ai agent", "autonomous agent", "reasoning", "multi-step", "agentic", "agent engineering",
			"task automation", "workflow automation"},
		Weight: 1.0,
	},
	{
		Name:     "robotics",
		Keywords: []string{"robotics", "robot", "autonomous robot", "robot learning", "embodied ai"},
		Weight:   0.8,
	},
	{
		Name: "ai_safety",
		Keywords: []string{"ai safety", "alignment", "bias detection", "safety", "fairness", "interpretability",
			"explainability", "responsible ai", "ethics"},
		Weight: 0.9,
	},
	{
		Name: "enterprise_ai",
		Keywords: []string{"enterprise ai", "business ai", "enterprise software", "saas", "b2b", "copilot",
			"workplace", "productivity", "workflow"},
		Weight: 0.85,
	},
}

// coreAIKeywords drive the two largest relevance score contributions.
var coreAIKeywords = []string{"artificial intelligence", "ai", "machine learning", "neural", "deep learning"}

// dealKeywords flag funding and M&A news. Deliberately broad: bare
// "million"/"billion" trigger it too, and downstream code tolerates the
// false positives by requiring a company name before emitting a deal.
var dealKeywords = []string{
	"raises", "raised", "funding", "investment", "funded", "acquir",
	"merger", "ipo", "series", "seed round", "venture capital",
	"round of funding", "million", "billion", "acquisition",
}

// majorAICompanies is the known-company registry, matched case-insensitively
// on word boundaries. Iteration order is fixed so that company resolution is
// deterministic when several names co-occur.
var majorAICompanies = []string{
	"openai", "anthropic", "google", "meta", "microsoft", "tesla", "nvidia",
	"groq", "together", "cohere", "stability", "hugging face", "mistral",
	"aleph alpha", "adept", "jasper", "copy.ai", "perplexity", "scale ai",
	"databricks", "modal", "vllm", "fireworks", "novita", "inflection",
	"character ai", "runway", "midjourney", "pika", "glean", "writer",
	"read ai", "sierra", "cognition", "devin", "factory", "magic",
	"cursor", "replit", "codeium", "tabnine", "sourcegraph", "anyscale",
	"langchain", "llamaindex", "pinecone", "weaviate", "chroma", "qdrant",
	"deepmind", "xai", "ai21", "amazon bedrock", "cerebras", "sambanova",
}

// majorInvestors is the known-investor registry.
var majorInvestors = []string{
	"sequoia", "a16z", "andreessen horowitz", "benchmark", "greylock", "khosla",
	"redpoint", "menlo", "spark", "vertex", "bessemer", "lightspeed", "insight",
	"accel", "founders fund", "google ventures", "microsoft ventures", "tiger global",
	"softbank", "general catalyst", "index ventures", "thrive capital", "coatue",
	"felicis", "kleiner perkins", "nea", "ivp", "dst global", "global founders",
}

// companyBlocklist filters common false positives out of the body-pattern
// company extraction.
var companyBlocklist = map[string]bool{
	"the": true, "and": true, "for": true, "new": true, "how": true, "why": true,
	"what": true, "this": true, "that": true, "former": true, "china": true,
	"saudi": true, "retail": true, "partnerships": true, "just": true,
	"african": true, "asian": true, "european": true, "american": true,
	"global": true, "local": true, "pitchbook": true, "report": true,
	"article": true, "news": true, "breaking": true, "latest": true,
	"india": true, "indian": true, "chinese": true, "us": true, "uk": true,
}

// titleBlocklist is the variant used when resolving a company from the
// article title alone.
var titleBlocklist = map[string]bool{
	"the": true, "and": true, "for": true, "new": true, "how": true, "why": true,
	"what": true, "this": true, "that": true, "former": true, "china": true,
	"saudi": true, "retail": true, "partnerships": true, "just": true,
	"african": true, "asian": true, "european": true, "american": true,
	"global": true, "local": true, "pitchbook": true, "report": true,
	"article": true, "news": true, "breaking": true, "latest": true,
	"close": true, "indexes": true, "india": true, "indian": true,
}
