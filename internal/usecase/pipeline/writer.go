package pipeline

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/rs/zerolog"

	"smmaa-bot/internal/domain"
	"smmaa-bot/internal/infra/metrics"
)

const writerSystemPrompt = `Ești scriitor pentru Funebra Brașov. Scrii DOAR în limba română cu diacritice corecte.`

// Directive stilistice pentru varianta creativă; una este aleasă aleator per apel.
var creativeDirectives = []string{
	"Construiește totul în jurul unei singure METAFORE centrale, dusă până la capăt.",
	"Stil MINIMALIST: propoziții scurte, spațiu alb, niciun cuvânt în plus.",
	"Pornește de la o ÎNTREBARE FILOSOFICĂ la care nu dai un răspuns definitiv.",
	"Ton POETIC: imagini vizuale, ritm, limbaj evocator dar sobru.",
	"Deschidere NARATIVĂ: primele cuvinte par începutul unei povești.",
}

// Directive stilistice pentru varianta emoțională.
var emotionalDirectives = []string{
	"Ton CONFESIV: scrie ca cineva care a trecut personal prin doliu.",
	"Detalii SENZORIALE: lumină, căldură, liniște, atingere.",
	"Registru NOSTALGIC: amintirile ca fir principal al mesajului.",
	"Ton ÎNCURAJATOR: validare blândă și speranță, fără promisiuni goale.",
	"Registru VULNERABIL: recunoaște deschis cât de grea este pierderea.",
}

// Writer produce cele trei variante de conținut prin apeluri independente,
// fiecare cu șablon propriu și temperatură proprie.
type Writer struct {
	gateway *Gateway
	rnd     *rand.Rand
	log     zerolog.Logger
}

// NewWriter creează etapa de scriere.
func NewWriter(gateway *Gateway, rnd *rand.Rand, logger zerolog.Logger) *Writer {
	return &Writer{gateway: gateway, rnd: rnd, log: logger}
}

// WriterInput grupează intrările etapei de scriere.
type WriterInput struct {
	Request      domain.GenerationRequest
	Strategy     domain.Strategy
	Knowledge    string
	HookPatterns []string
}

type variantPayload struct {
	Hook    string `json:"hook"`
	Body    string `json:"body"`
	CTA     string `json:"cta"`
	Content string `json:"content"`
}

// Execute generează cele trei variante, exact una din fiecare fel. Apelurile se
// serializează prin limitatorul global al gateway-ului.
func (w *Writer) Execute(ctx context.Context, input WriterInput) ([]domain.ContentVariant, error) {
	base := w.buildBaseContext(input)

	safe, err := w.generateVariant(ctx, base+safeVariantSection(), domain.VariantSafe,
		jitterTemperature(w.rnd, input.Strategy.Temperatures.Safe, temperatureSpread))
	if err != nil {
		return nil, err
	}
	creative, err := w.generateVariant(ctx, base+creativeVariantSection(pick(w.rnd, creativeDirectives)), domain.VariantCreative,
		jitterTemperature(w.rnd, input.Strategy.Temperatures.Creative, temperatureSpread))
	if err != nil {
		return nil, err
	}
	emotional, err := w.generateVariant(ctx, base+emotionalVariantSection(pick(w.rnd, emotionalDirectives)), domain.VariantEmotional,
		jitterTemperature(w.rnd, input.Strategy.Temperatures.Emotional, temperatureSpread))
	if err != nil {
		return nil, err
	}

	return []domain.ContentVariant{safe, creative, emotional}, nil
}

func (w *Writer) generateVariant(ctx context.Context, prompt string, kind domain.VariantKind, temperature float64) (domain.ContentVariant, error) {
	response, err := w.gateway.Call(ctx, writerSystemPrompt, prompt, temperature, 0)
	if err != nil {
		return domain.ContentVariant{}, fmt.Errorf("scriere variantă %s: %w", kind, err)
	}
	return extractVariant(response, kind, temperature, w.log), nil
}

// extractVariant decodează răspunsul; un JSON nevalid nu aruncă generarea:
// textul brut devine corpul variantei.
func extractVariant(response string, kind domain.VariantKind, temperature float64, logger zerolog.Logger) domain.ContentVariant {
	var parsed variantPayload
	if err := ExtractJSON(response, &parsed); err != nil {
		logger.Warn().Str("variant", string(kind)).Msg("scriere: răspuns nevalid, folosesc textul brut")
		metrics.IncStageFallback("writer")
		raw := strings.TrimSpace(response)
		return domain.ContentVariant{Kind: kind, Body: raw, Content: raw, TemperatureUsed: temperature}
	}
	content := strings.TrimSpace(parsed.Content)
	if len(content) < 20 {
		var parts []string
		for _, part := range []string{parsed.Hook, parsed.Body, parsed.CTA} {
			if strings.TrimSpace(part) != "" {
				parts = append(parts, strings.TrimSpace(part))
			}
		}
		content = strings.Join(parts, "\n\n")
	}
	if content == "" {
		content = strings.TrimSpace(response)
	}
	cta := parsed.CTA
	if strings.TrimSpace(cta) == "" {
		cta = "Suntem aici pentru dumneavoastră."
	}
	return domain.ContentVariant{
		Kind:            kind,
		Hook:            strings.TrimSpace(parsed.Hook),
		Body:            strings.TrimSpace(parsed.Body),
		CTA:             strings.TrimSpace(cta),
		Content:         content,
		TemperatureUsed: temperature,
	}
}

func (w *Writer) buildBaseContext(input WriterInput) string {
	var b strings.Builder

	if m := input.Request.MediaAnalysis; m != nil {
		b.WriteString("🖼️ IMAGINE/VIDEO ÎNCĂRCATĂ - DESCRIE CE VEZI:\n")
		fmt.Fprintf(&b, "Descriere: %s\n", m.Description)
		fmt.Fprintf(&b, "Obiecte: %s\n", strings.Join(m.Objects, ", "))
		fmt.Fprintf(&b, "Atmosferă: %s\n", m.Mood)
		fmt.Fprintf(&b, "Culori: %s\n", strings.Join(m.Colors, ", "))
		if m.FuneralContext != nil && m.FuneralContext.IsFuneralRelated {
			fmt.Fprintf(&b, "Elemente funerare: %s\n", strings.Join(m.FuneralContext.Elements, ", "))
		}
		b.WriteString("⚠️ OBLIGATORIU: Textul TREBUIE să descrie/refere imaginea!\n\n")
	}

	fmt.Fprintf(&b, "📏 LUNGIME OBLIGATORIE:\n%s\n\n", wordCountGuide(input.Request.WordCount))
	fmt.Fprintf(&b, "📱 Platformă: %s\n", strings.ToUpper(string(input.Request.Platform)))
	fmt.Fprintf(&b, "📝 Tip: %s\n", input.Request.PostType)
	fmt.Fprintf(&b, "🎭 Ton: %s\n", input.Request.Tone)
	if input.Request.CustomPrompt != "" {
		fmt.Fprintf(&b, "💬 Instrucțiuni: %s\n", input.Request.CustomPrompt)
	}
	fmt.Fprintf(&b, "\n🎯 Obiectiv: %s\n", input.Strategy.KeyMessage)
	fmt.Fprintf(&b, "🧭 Unghi impus: %s\n", input.Strategy.Angle)

	b.WriteString("\n🚫 VOCABULAR INTERZIS (nu folosi NICIUNUL dintre acești termeni):\n")
	fmt.Fprintf(&b, "%s\n", strings.Join(forbiddenVocabulary, ", "))
	fmt.Fprintf(&b, "%s\n", strings.Join(forbiddenCliches, ", "))
	b.WriteString("✅ VOCABULAR RECOMANDAT:\n")
	fmt.Fprintf(&b, "%s\n", strings.Join(recommendedVocabulary, ", "))

	if len(input.HookPatterns) > 0 {
		b.WriteString("\n💡 HOOK-URI CARE AU FUNCȚIONAT (doar INSPIRAȚIE - NU le copia):\n")
		for _, pattern := range firstN(input.HookPatterns, 2) {
			fmt.Fprintf(&b, "- %s\n", pattern)
		}
	}

	if input.Knowledge != "" {
		fmt.Fprintf(&b, "\nCUNOȘTINȚE DESPRE COMPANIE:\n%s\n", input.Knowledge)
	}

	return b.String()
}

func wordCountGuide(wordCount domain.WordCount) string {
	switch wordCount {
	case domain.WordCountShort:
		return "SCURT = EXACT 15-30 cuvinte. Nu mai mult! Fii extrem de concis."
	case domain.WordCountLong:
		return "LUNG = EXACT 100-150 cuvinte. Storytelling detaliat."
	default:
		return "MEDIU = EXACT 40-70 cuvinte. Nici mai puțin, nici mai mult!"
	}
}

func safeVariantSection() string {
	return `
═══════════════════════════════════════════════════════
SCRIE VARIANTA "SIGUR" - Conservatoare, de încredere
═══════════════════════════════════════════════════════

CARACTERISTICI OBLIGATORII pentru varianta SIGUR:
• Limbaj clasic, sobru, profesional
• Fără metafore îndrăznețe sau creații lingvistice
• Mesaj direct și clar
• Tonul unei instituții de încredere
• Folosește "dumneavoastră"
• Evită emoții intense

STRUCTURA:
1. Hook simplu și direct (max 10 cuvinte)
2. Mesaj principal clar
3. CTA profesional ("Suntem alături de dumneavoastră")

RETURNEAZĂ DOAR JSON:
{
  "hook": "primul rând captivant",
  "body": "corpul mesajului",
  "cta": "call to action",
  "content": "textul COMPLET gata de copiat"
}`
}

func creativeVariantSection(directive string) string {
	return fmt.Sprintf(`
═══════════════════════════════════════════════════════
SCRIE VARIANTA "CREATIV" - Inovatoare, surprinzătoare
═══════════════════════════════════════════════════════

CARACTERISTICI OBLIGATORII pentru varianta CREATIV:
• Abordare neașteptată, unică
• Metafore interesante despre viață, amintiri, timp
• Stil fresh, modern, dar respectuos

DIRECTIVĂ DE STIL PENTRU ACEASTĂ RULARE:
%s

EXEMPLE DE HOOK-URI CREATIVE:
- "Ce rămâne când totul se schimbă?"
- "Uneori, cel mai greu lucru..."
- "Într-o lume a grabei..."

STRUCTURA:
1. Hook surprinzător/poetic
2. Dezvoltare creativă cu metafore
3. CTA elegant

RETURNEAZĂ DOAR JSON:
{
  "hook": "primul rând captivant și CREATIV",
  "body": "corpul mesajului CU METAFORE",
  "cta": "call to action elegant",
  "content": "textul COMPLET gata de copiat"
}`, directive)
}

func emotionalVariantSection(directive string) string {
	return fmt.Sprintf(`
═══════════════════════════════════════════════════════
SCRIE VARIANTA "EMOȚIONAL" - Din inimă, profundă
═══════════════════════════════════════════════════════

CARACTERISTICI OBLIGATORII pentru varianta EMOȚIONAL:
• Conectează-te la emoții universale: dragoste, pierdere, speranță
• Folosește "noi" și "împreună"
• Tonul unui prieten care a înțeles durerea

DIRECTIVĂ DE STIL PENTRU ACEASTĂ RULARE:
%s

EXEMPLE DE HOOK-URI EMOȚIONALE:
- "Știm că acest moment e greu..."
- "Când pierdem pe cineva drag..."
- "Amintirile nu dispar niciodată..."

STRUCTURA:
1. Hook emoțional care arată empatie
2. Mesaj plin de căldură și înțelegere
3. CTA care oferă confort ("Nu ești singur")

RETURNEAZĂ DOAR JSON:
{
  "hook": "primul rând EMOȚIONAL și empatic",
  "body": "corpul mesajului CU EMPATIE PROFUNDĂ",
  "cta": "call to action reconfortant",
  "content": "textul COMPLET gata de copiat"
}`, directive)
}
