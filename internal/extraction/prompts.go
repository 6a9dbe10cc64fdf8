package extraction

import "fmt"

// Prompt pairs the system instruction with a template wrapping the user
// input. The request contract is identical for every prompt; only the
// instructions differ.
type Prompt struct {
	System       string
	UserTemplate string
}

// UserContent renders the user message for the given input.
func (p Prompt) UserContent(input string) string {
	return fmt.Sprintf(p.UserTemplate, input)
}

// FullExtraction asks for all product text: name, ingredients, claims.
var FullExtraction = Prompt{
	System: "You are an OCR specialist that reads text from product images and extracts key information about the product. " +
		"Focus on ingredients, product name, brand, nutrition facts, and sustainability information. " +
		"Present the information in a clear, concise format.",
	UserTemplate: "Please analyze this product image and extract all text information. " +
		"Focus on the product name, ingredients list, and any sustainability claims or certifications. " +
		"The image is provided as a base64 string: %s",
}

// IngredientsOnly asks for the bare ingredient list.
var IngredientsOnly = Prompt{
	System: "You are an OCR specialist that reads ingredient labels from product images. " +
		"Return only the ingredient list, one ingredient per line, with no commentary.",
	UserTemplate: "Extract the complete ingredients list from this product image. " +
		"The image is provided as a base64 string: %s",
}

// AlternativeSuggestions asks for a comparison document with more sustainable
// alternatives, as JSON.
var AlternativeSuggestions = Prompt{
	System: "You are a sustainability advisor. Given a product description, suggest more sustainable alternative products. " +
		"Respond with a single JSON object of the shape " +
		`{"original":{"name","brand","price","sustainabilityScore"},"alternatives":[...],"metrics":[{"name","original","alternative","unitLabel"}]}` +
		" and nothing else.",
	UserTemplate: "Suggest more sustainable alternatives for this product and compare them: %s",
}
