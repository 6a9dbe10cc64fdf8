package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"go-ecoscan/internal/cache"
	"go-ecoscan/internal/comparison"
	"go-ecoscan/internal/extraction"
	"go-ecoscan/internal/imagecodec"
	"go-ecoscan/internal/ingredients"
	"go-ecoscan/internal/logger"
	"go-ecoscan/internal/observer"
	"go-ecoscan/internal/parser"
	"go-ecoscan/internal/scoring"
	"go-ecoscan/internal/storage"
	"go-ecoscan/pkg/models"
	"go-ecoscan/pkg/validation"
)

// AnalysisService defines the product analysis pipeline
type AnalysisService interface {
	// AnalyzeProduct runs the full pipeline on one image payload and
	// returns the client-facing response.
	AnalyzeProduct(ctx context.Context, image string) (*models.AnalysisResponse, error)

	// LatestComparison returns the most recent comparison result, if any.
	LatestComparison() (models.ComparisonResult, bool)

	// ValidateImagePayload checks a payload without running the pipeline.
	ValidateImagePayload(image string) error
}

// analysisService implements AnalysisService as a linear, awaited sequence.
// Only extraction failure aborts a run; parse and lookup problems degrade to
// defaults so the endpoint always answers when the provider does.
type analysisService struct {
	store         storage.BlobStore
	extractor     extraction.TextExtractor
	scorer        *scoring.Scorer
	results       *cache.ResultCache
	validator     *validation.ImageValidator
	publisher     observer.Subject
	uploadTimeout time.Duration
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(
	store storage.BlobStore,
	extractor extraction.TextExtractor,
	scorer *scoring.Scorer,
	results *cache.ResultCache,
	publisher observer.Subject,
	uploadTimeout time.Duration,
) AnalysisService {
	return &analysisService{
		store:         store,
		extractor:     extractor,
		scorer:        scorer,
		results:       results,
		validator:     validation.NewImageValidator(),
		publisher:     publisher,
		uploadTimeout: uploadTimeout,
	}
}

// AnalyzeProduct runs intake, storage, extraction, parsing, scoring and
// synthesis in order, caching the comparison before returning.
func (s *analysisService) AnalyzeProduct(ctx context.Context, image string) (*models.AnalysisResponse, error) {
	started := time.Now()
	s.notify(ctx, observer.PipelineEvent{
		EventType: observer.AnalysisStarted,
		Timestamp: started,
		Success:   true,
	})

	response, err := s.analyze(ctx, image, started)
	if err != nil {
		s.notify(ctx, observer.PipelineEvent{
			EventType:      observer.AnalysisFailed,
			Timestamp:      time.Now(),
			ProcessingTime: time.Since(started),
			ErrorMessage:   err.Error(),
		})
		return nil, err
	}

	s.notify(ctx, observer.PipelineEvent{
		EventType:      observer.AnalysisCompleted,
		Timestamp:      time.Now(),
		ProcessingTime: time.Since(started),
		Success:        true,
		Metadata: map[string]interface{}{
			"matched_ingredients": response.MatchedIngredients,
			"total_ingredients":   response.TotalIngredients,
		},
	})
	return response, nil
}

func (s *analysisService) analyze(ctx context.Context, image string, started time.Time) (*models.AnalysisResponse, error) {
	if err := s.validator.ValidateImagePayload(image); err != nil {
		return nil, err
	}

	encoded := imagecodec.Normalize(image)

	imageURL := s.storeImage(ctx, encoded, started)

	extracted, err := s.extractor.Extract(ctx, string(encoded), extraction.FullExtraction)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, observer.PipelineEvent{
		EventType:      observer.TextExtracted,
		Timestamp:      time.Now(),
		ImageReference: imageURL,
		ProcessingTime: time.Since(started),
		Success:        true,
		Metadata:       map[string]interface{}{"text_length": len(extracted)},
	})

	names := s.extractIngredients(ctx, extracted, encoded)
	report, err := s.scorer.Score(ctx, names)
	if err != nil {
		return nil, err
	}

	doc := s.suggestAlternatives(ctx, extracted, imageURL)

	metrics := comparison.Synthesize(doc.Original, doc.Alternatives, doc.Metrics)
	s.results.Put(metrics)

	return &models.AnalysisResponse{
		Ingredients:        names,
		AverageScore:       report.AverageScore,
		MatchedIngredients: report.Matched,
		TotalIngredients:   report.Total,
		IngredientScores:   report.Records,
		Result:             extracted,
		Alternatives:       metrics.Alternatives,
		Comparison:         &metrics,
	}, nil
}

// storeImage uploads the encoded image and returns its public URL. Upload
// failures are reported but do not abort the run; the response simply carries
// no stored image address.
func (s *analysisService) storeImage(ctx context.Context, encoded imagecodec.EncodedImage, started time.Time) string {
	data, mimeType, err := imagecodec.Decode(encoded)
	if err != nil {
		s.reportStoreFailure(ctx, started, err)
		return ""
	}

	uploadCtx := ctx
	if s.uploadTimeout > 0 {
		var cancel context.CancelFunc
		uploadCtx, cancel = context.WithTimeout(ctx, s.uploadTimeout)
		defer cancel()
	}

	if err := s.store.EnsureBucket(uploadCtx); err != nil {
		s.reportStoreFailure(ctx, started, err)
		return ""
	}

	filename := fmt.Sprintf("%s.%s", uuid.New().String(), extensionFor(mimeType))
	ref, err := s.store.Upload(uploadCtx, filename, data, mimeType)
	if err != nil {
		s.reportStoreFailure(ctx, started, err)
		return ""
	}

	s.notify(ctx, observer.PipelineEvent{
		EventType:      observer.ImageStored,
		Timestamp:      time.Now(),
		ImageReference: string(ref),
		ProcessingTime: time.Since(started),
		Success:        true,
		Metadata:       map[string]interface{}{"content_type": mimeType, "bytes": len(data)},
	})
	return string(ref)
}

// extractIngredients derives the ingredient list from the full extraction
// text. When that text yields nothing usable, a dedicated ingredients-only
// call gives the provider a second, narrower shot at the label; its failure
// leaves the list empty rather than failing the run.
func (s *analysisService) extractIngredients(ctx context.Context, extracted string, encoded imagecodec.EncodedImage) []string {
	names := ingredients.Extract(extracted)
	if len(names) > 0 {
		return names
	}

	listing, err := s.extractor.Extract(ctx, string(encoded), extraction.IngredientsOnly)
	if err != nil {
		logger.WithError(err).Warn("Ingredients-only extraction call failed")
		return nil
	}
	return ingredients.Extract(listing)
}

// suggestAlternatives asks the extractor for a comparison document built from
// the already extracted text. Any failure here falls back to the default
// document so the comparison feature degrades instead of failing the run.
func (s *analysisService) suggestAlternatives(ctx context.Context, extracted, imageURL string) models.Document {
	completion, err := s.extractor.Extract(ctx, extracted, extraction.AlternativeSuggestions)
	if err != nil {
		logger.WithError(err).Warn("Alternative suggestion call failed, using default document")
		return withImage(parser.DefaultDocument(), imageURL)
	}

	doc, outcome := parser.Parse(completion)
	if outcome != parser.OutcomeParsed {
		s.notify(ctx, observer.PipelineEvent{
			EventType: observer.DocumentRecovered,
			Timestamp: time.Now(),
			Success:   outcome != parser.OutcomeDefaulted,
			Metadata:  map[string]interface{}{"outcome": outcome.String()},
		})
	}
	if len(doc.Alternatives) == 0 {
		doc.Alternatives = parser.DefaultDocument().Alternatives
	}
	return withImage(doc, imageURL)
}

// LatestComparison returns the cached comparison result
func (s *analysisService) LatestComparison() (models.ComparisonResult, bool) {
	return s.results.Get()
}

// ValidateImagePayload validates the image payload
func (s *analysisService) ValidateImagePayload(image string) error {
	return s.validator.ValidateImagePayload(image)
}

func (s *analysisService) reportStoreFailure(ctx context.Context, started time.Time, err error) {
	logger.WithError(err).Warn("Image upload failed, continuing without stored image")
	s.notify(ctx, observer.PipelineEvent{
		EventType:      observer.ImageStoreFailed,
		Timestamp:      time.Now(),
		ProcessingTime: time.Since(started),
		ErrorMessage:   err.Error(),
	})
}

func (s *analysisService) notify(ctx context.Context, event observer.PipelineEvent) {
	if s.publisher != nil {
		s.publisher.NotifyObservers(ctx, event)
	}
}

func withImage(doc models.Document, imageURL string) models.Document {
	if imageURL != "" && doc.Original.Image == "" {
		doc.Original.Image = imageURL
	}
	return doc
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/png":
		return "png"
	case "image/webp":
		return "webp"
	case "image/gif":
		return "gif"
	default:
		return "jpg"
	}
}
