package intelligence

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"smmaa-bot/internal/domain"
	"smmaa-bot/internal/infra/metrics"
)

// Detector compară conținutul nou cu istoricul recent de postări. Heuristică
// pur locală, fără apeluri de rețea.
type Detector struct {
	history   domain.PostHistoryRepo
	threshold float64
	daysBack  int
	now       func() time.Time
	log       zerolog.Logger
}

// NewDetector creează detectorul cu pragul și fereastra configurate.
func NewDetector(history domain.PostHistoryRepo, threshold float64, daysBack int, logger zerolog.Logger) *Detector {
	return &Detector{
		history:   history,
		threshold: threshold,
		daysBack:  daysBack,
		now:       time.Now,
		log:       logger,
	}
}

// Detect caută postări similare în fereastra configurată și întoarce cel mult
// primele trei potriviri, descrescător după similaritate. Un istoric
// inaccesibil nu oprește generarea: raportul iese gol.
func (d *Detector) Detect(content string) domain.SimilarityReport {
	cutoff := d.now().AddDate(0, 0, -d.daysBack)
	records, err := d.history.PostsSince(cutoff, 100)
	if err != nil {
		d.log.Warn().Err(err).Msg("similaritate: nu am putut citi istoricul")
		return domain.SimilarityReport{}
	}

	var matches []domain.SimilarMatch
	for _, record := range records {
		score := averageSimilarity(content, record.Content)
		if score >= d.threshold {
			matches = append(matches, domain.SimilarMatch{
				PostID:      record.ID,
				Excerpt:     excerpt(record.Content, 100),
				Similarity:  score,
				GeneratedAt: record.GeneratedAt,
			})
		}
	}
	if len(matches) == 0 {
		return domain.SimilarityReport{}
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Similarity > matches[j].Similarity })
	total := len(matches)
	if len(matches) > 3 {
		matches = matches[:3]
	}
	metrics.SimilarityWarningsTotal.Inc()
	return domain.SimilarityReport{
		IsSimilar:    true,
		SimilarPosts: matches,
		Warning: fmt.Sprintf("⚠️ Conținut similar cu %d postări din ultimele %d zile. Încearcă un unghi diferit.",
			total, d.daysBack),
	}
}

// averageSimilarity combină Jaccard pe cuvinte lungi cu cosinus pe frecvențe.
func averageSimilarity(a, b string) float64 {
	return (jaccardSimilarity(a, b) + cosineSimilarity(a, b)) / 2
}

func jaccardSimilarity(a, b string) float64 {
	wordsA := wordSet(a, 4)
	wordsB := wordSet(b, 4)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}
	intersection := 0
	for word := range wordsA {
		if _, ok := wordsB[word]; ok {
			intersection++
		}
	}
	union := len(wordsB)
	for word := range wordsA {
		if _, ok := wordsB[word]; !ok {
			union++
		}
	}
	return float64(intersection) / float64(union)
}

func cosineSimilarity(a, b string) float64 {
	freqA := wordFrequencies(a, 3)
	freqB := wordFrequencies(b, 3)

	var dot, magA, magB float64
	for word, countA := range freqA {
		dot += float64(countA) * float64(freqB[word])
		magA += float64(countA) * float64(countA)
	}
	for _, countB := range freqB {
		magB += float64(countB) * float64(countB)
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

// wordSet întoarce cuvintele distincte strict mai lungi de minLen.
func wordSet(text string, minLen int) map[string]struct{} {
	set := make(map[string]struct{})
	for _, word := range strings.Fields(strings.ToLower(text)) {
		if len([]rune(word)) > minLen {
			set[word] = struct{}{}
		}
	}
	return set
}

func wordFrequencies(text string, minLen int) map[string]int {
	freq := make(map[string]int)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		if len([]rune(word)) > minLen {
			freq[word]++
		}
	}
	return freq
}

func excerpt(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
