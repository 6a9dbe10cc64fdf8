package service

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"go-ecoscan/internal/cache"
	"go-ecoscan/internal/extraction"
	"go-ecoscan/internal/observer"
	"go-ecoscan/internal/repository"
	"go-ecoscan/internal/scoring"
	"go-ecoscan/internal/storage"
)

type fakeBlobStore struct {
	uploaded  []string
	uploadErr error
}

func (f *fakeBlobStore) EnsureBucket(ctx context.Context) error { return nil }

func (f *fakeBlobStore) Upload(ctx context.Context, filename string, data []byte, contentType string) (storage.ImageReference, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.uploaded = append(f.uploaded, filename)
	return storage.ImageReference("https://cdn.example.com/" + filename), nil
}

func (f *fakeBlobStore) PublicURL(filename string) string {
	return "https://cdn.example.com/" + filename
}

type fakeExtractor struct {
	fullText        string
	ingredientsText string
	alternativeText string
	fullErr         error
	ingredientsErr  error
	alternativeErr  error
	calls           int
	ingredientsCall int
}

func (f *fakeExtractor) Extract(ctx context.Context, input string, prompt extraction.Prompt) (string, error) {
	f.calls++
	switch prompt.System {
	case extraction.AlternativeSuggestions.System:
		return f.alternativeText, f.alternativeErr
	case extraction.IngredientsOnly.System:
		f.ingredientsCall++
		return f.ingredientsText, f.ingredientsErr
	default:
		return f.fullText, f.fullErr
	}
}

type fakeScoreTable struct {
	rows map[string][]repository.ScoreRow
}

func (f *fakeScoreTable) Lookup(ctx context.Context, ingredient string) ([]repository.ScoreRow, error) {
	var out []repository.ScoreRow
	for name, rows := range f.rows {
		if strings.Contains(strings.ToLower(name), strings.ToLower(ingredient)) {
			out = append(out, rows...)
		}
	}
	return out, nil
}

func (f *fakeScoreTable) Close() error { return nil }

func testImagePayload() string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte("image bytes"))
}

func newTestService(store *fakeBlobStore, extractor *fakeExtractor) AnalysisService {
	table := &fakeScoreTable{rows: map[string][]repository.ScoreRow{
		"Water":      {{IngredientName: "Water", Score: 95}},
		"Cane Sugar": {{IngredientName: "Cane Sugar", Score: 30}},
	}}
	return NewAnalysisService(store, extractor, scoring.NewScorer(table), cache.NewResultCache(), observer.NewEventPublisher(), 0)
}

func TestAnalyzeProduct(t *testing.T) {
	store := &fakeBlobStore{}
	extractor := &fakeExtractor{
		fullText: "Product: Fizzy Drink\nIngredients: water, sugar",
		alternativeText: `{"original":{"name":"Fizzy Drink","brand":"Fizz Co","price":"$2.49","sustainabilityScore":35},` +
			`"alternatives":[{"name":"Plain Sparkling Water","brand":"Aqua","price":"$1.99","sustainabilityScore":90}],` +
			`"metrics":[{"name":"Carbon Footprint","original":0.35,"alternative":0.9,"unitLabel":"kg CO2"}]}`,
	}
	svc := newTestService(store, extractor)

	resp, err := svc.AnalyzeProduct(context.Background(), testImagePayload())
	if err != nil {
		t.Fatalf("AnalyzeProduct() error = %v", err)
	}

	if len(resp.Ingredients) != 2 {
		t.Fatalf("expected 2 ingredients, got %v", resp.Ingredients)
	}
	if resp.TotalIngredients != 2 || resp.MatchedIngredients != 2 {
		t.Errorf("expected 2/2 matched, got %d/%d", resp.MatchedIngredients, resp.TotalIngredients)
	}
	if resp.AverageScore == nil || *resp.AverageScore != 63 {
		t.Errorf("expected average 63, got %v", resp.AverageScore)
	}
	if resp.Comparison == nil {
		t.Fatal("expected a comparison result")
	}
	if got := len(resp.Comparison.Metrics); got != 4 {
		t.Errorf("expected 4 comparison metrics, got %d", got)
	}
	if len(resp.Alternatives) != 1 || resp.Alternatives[0].Name != "Plain Sparkling Water" {
		t.Errorf("unexpected alternatives: %+v", resp.Alternatives)
	}
	if len(store.uploaded) != 1 {
		t.Errorf("expected one upload, got %d", len(store.uploaded))
	}
	if extractor.calls != 2 {
		t.Errorf("expected 2 extraction calls, got %d", extractor.calls)
	}
}

func TestAnalyzeProductCachesComparison(t *testing.T) {
	extractor := &fakeExtractor{
		fullText:        "Ingredients: water",
		alternativeText: "no json here, just prose",
	}
	svc := newTestService(&fakeBlobStore{}, extractor)

	if _, ok := svc.LatestComparison(); ok {
		t.Fatal("cache should start empty")
	}

	if _, err := svc.AnalyzeProduct(context.Background(), testImagePayload()); err != nil {
		t.Fatalf("AnalyzeProduct() error = %v", err)
	}

	cached, ok := svc.LatestComparison()
	if !ok {
		t.Fatal("expected a cached comparison after analysis")
	}
	if cached.Original.Name != "Standard Water Bottle" {
		t.Errorf("expected default document original, got %q", cached.Original.Name)
	}
	if len(cached.Alternatives) == 0 {
		t.Error("cached comparison must carry at least one alternative")
	}
}

func TestAnalyzeProductExtractionFailureAborts(t *testing.T) {
	extractor := &fakeExtractor{fullErr: errors.New("provider down")}
	svc := newTestService(&fakeBlobStore{}, extractor)

	if _, err := svc.AnalyzeProduct(context.Background(), testImagePayload()); err == nil {
		t.Fatal("expected extraction failure to abort the run")
	}
}

func TestAnalyzeProductUploadFailureDegrades(t *testing.T) {
	store := &fakeBlobStore{uploadErr: errors.New("storage offline")}
	extractor := &fakeExtractor{
		fullText:        "Ingredients: water",
		alternativeText: "prose only",
	}
	svc := newTestService(store, extractor)

	resp, err := svc.AnalyzeProduct(context.Background(), testImagePayload())
	if err != nil {
		t.Fatalf("upload failure should not abort the run, got %v", err)
	}
	if resp.Comparison == nil {
		t.Fatal("expected a comparison despite upload failure")
	}
}

func TestAnalyzeProductRejectsInvalidPayload(t *testing.T) {
	svc := newTestService(&fakeBlobStore{}, &fakeExtractor{})

	if _, err := svc.AnalyzeProduct(context.Background(), ""); err == nil {
		t.Fatal("expected empty payload to be rejected")
	}
	if _, err := svc.AnalyzeProduct(context.Background(), "!!!"); err == nil {
		t.Fatal("expected malformed payload to be rejected")
	}
}

// When the full extraction text yields no ingredients, a dedicated
// ingredients-only call gives the provider a second shot at the label.
func TestAnalyzeProductFallsBackToIngredientsOnlyCall(t *testing.T) {
	extractor := &fakeExtractor{
		fullText:        "",
		ingredientsText: "water\nsugar",
		alternativeText: "prose only",
	}
	svc := newTestService(&fakeBlobStore{}, extractor)

	resp, err := svc.AnalyzeProduct(context.Background(), testImagePayload())
	if err != nil {
		t.Fatalf("AnalyzeProduct() error = %v", err)
	}
	if extractor.ingredientsCall != 1 {
		t.Fatalf("expected one ingredients-only call, got %d", extractor.ingredientsCall)
	}
	if len(resp.Ingredients) != 2 {
		t.Errorf("expected 2 ingredients from the follow-up call, got %v", resp.Ingredients)
	}
	if resp.MatchedIngredients != 2 {
		t.Errorf("expected follow-up ingredients to be scored, got %d matched", resp.MatchedIngredients)
	}
}

func TestAnalyzeProductIngredientsOnlyCallNotMadeWhenTextSuffices(t *testing.T) {
	extractor := &fakeExtractor{
		fullText:        "Ingredients: water, sugar",
		ingredientsText: "salt",
		alternativeText: "prose only",
	}
	svc := newTestService(&fakeBlobStore{}, extractor)

	if _, err := svc.AnalyzeProduct(context.Background(), testImagePayload()); err != nil {
		t.Fatalf("AnalyzeProduct() error = %v", err)
	}
	if extractor.ingredientsCall != 0 {
		t.Errorf("ingredients-only call should be skipped, got %d", extractor.ingredientsCall)
	}
}

// Every parsed alternative reaches the response, not just the first.
func TestAnalyzeProductCarriesAllAlternatives(t *testing.T) {
	extractor := &fakeExtractor{
		fullText: "Ingredients: water",
		alternativeText: `{"original":{"name":"Soda","brand":"Fizz Co","price":"$2.49","sustainabilityScore":35},` +
			`"alternatives":[{"name":"Sparkling Water","brand":"Aqua","price":"$1.99","sustainabilityScore":90},` +
			`{"name":"Fruit Infusion","brand":"Orchard","price":"$2.29","sustainabilityScore":80}],` +
			`"metrics":[]}`,
	}
	svc := newTestService(&fakeBlobStore{}, extractor)

	resp, err := svc.AnalyzeProduct(context.Background(), testImagePayload())
	if err != nil {
		t.Fatalf("AnalyzeProduct() error = %v", err)
	}
	if len(resp.Alternatives) != 2 {
		t.Fatalf("expected both alternatives, got %+v", resp.Alternatives)
	}
	if resp.Alternatives[0].Name != "Sparkling Water" || resp.Alternatives[1].Name != "Fruit Infusion" {
		t.Errorf("alternatives out of order or dropped: %+v", resp.Alternatives)
	}
	if resp.Comparison == nil || len(resp.Comparison.Alternatives) != 2 {
		t.Error("comparison must carry all alternatives as well")
	}
}

func TestAnalyzeProductAlternativeCallFailureUsesDefault(t *testing.T) {
	extractor := &fakeExtractor{
		fullText:       "Ingredients: water",
		alternativeErr: errors.New("rate limited"),
	}
	svc := newTestService(&fakeBlobStore{}, extractor)

	resp, err := svc.AnalyzeProduct(context.Background(), testImagePayload())
	if err != nil {
		t.Fatalf("alternative failure should degrade, got %v", err)
	}
	if len(resp.Alternatives) != 1 || resp.Alternatives[0].Name != "Eco-friendly Water Bottle" {
		t.Errorf("expected default alternative, got %+v", resp.Alternatives)
	}
}
