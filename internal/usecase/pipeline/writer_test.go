package pipeline

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"smmaa-bot/internal/domain"
)

func writerVariantJSON(content string) string {
	return `{"hook": "Hook", "body": "Corp", "cta": "CTA", "content": "` + content + `"}`
}

func newTestWriter(client *stubClient) *Writer {
	gateway, _ := newTestGateway(client)
	return NewWriter(gateway, rand.New(rand.NewSource(1)), zerolog.Nop())
}

func TestWriterProducesOneVariantPerKind(t *testing.T) {
	client := &stubClient{calls: []stubCall{
		{text: writerVariantJSON("Varianta sigură, scrisă sobru și instituțional.")},
		{text: writerVariantJSON("Varianta creativă, construită pe o metaforă.")},
		{text: writerVariantJSON("Varianta emoțională, plină de căldură și empatie.")},
	}}
	writer := newTestWriter(client)

	variants, err := writer.Execute(context.Background(), WriterInput{
		Request:  testRequest(),
		Strategy: DefaultStrategy(domain.PostTypeSupportive),
	})
	if err != nil {
		t.Fatalf("nu așteptam eroare: %v", err)
	}
	if len(variants) != 3 {
		t.Fatalf("așteptam 3 variante, am primit %d", len(variants))
	}
	expected := []domain.VariantKind{domain.VariantSafe, domain.VariantCreative, domain.VariantEmotional}
	for i, kind := range expected {
		if variants[i].Kind != kind {
			t.Fatalf("varianta %d trebuie să fie %s, am primit %s", i, kind, variants[i].Kind)
		}
	}
	if len(client.requests) != 3 {
		t.Fatalf("așteptam 3 apeluri independente, am numărat %d", len(client.requests))
	}
}

func TestWriterPromptsAreDisjointPerVariant(t *testing.T) {
	client := &stubClient{calls: []stubCall{
		{text: writerVariantJSON("text sigur suficient de lung")},
		{text: writerVariantJSON("text creativ suficient de lung")},
		{text: writerVariantJSON("text emoțional suficient de lung")},
	}}
	writer := newTestWriter(client)

	if _, err := writer.Execute(context.Background(), WriterInput{
		Request:  testRequest(),
		Strategy: DefaultStrategy(domain.PostTypeSupportive),
	}); err != nil {
		t.Fatalf("nu așteptam eroare: %v", err)
	}

	safePrompt := client.requests[0].Prompt
	creativePrompt := client.requests[1].Prompt
	emotionalPrompt := client.requests[2].Prompt

	if !strings.Contains(safePrompt, `VARIANTA "SIGUR"`) || strings.Contains(safePrompt, "DIRECTIVĂ DE STIL") {
		t.Fatal("promptul sigur trebuie să fie instituțional, fără directivă de stil")
	}
	if !strings.Contains(creativePrompt, `VARIANTA "CREATIV"`) || !strings.Contains(creativePrompt, "DIRECTIVĂ DE STIL") {
		t.Fatal("promptul creativ trebuie să conțină o directivă de stil")
	}
	if !strings.Contains(emotionalPrompt, `VARIANTA "EMOȚIONAL"`) || !strings.Contains(emotionalPrompt, "DIRECTIVĂ DE STIL") {
		t.Fatal("promptul emoțional trebuie să conțină o directivă de stil")
	}
	for _, prompt := range []string{safePrompt, creativePrompt, emotionalPrompt} {
		if !strings.Contains(prompt, "VOCABULAR INTERZIS") {
			t.Fatal("fiecare prompt trebuie să conțină vocabularul interzis")
		}
		if !strings.Contains(prompt, "SCURT = EXACT 15-30 cuvinte") {
			t.Fatal("ghidul de lungime pentru short lipsește")
		}
	}
}

func TestWriterTemperaturesStayNearStrategyBases(t *testing.T) {
	client := &stubClient{calls: []stubCall{
		{text: writerVariantJSON("text sigur suficient de lung")},
		{text: writerVariantJSON("text creativ suficient de lung")},
		{text: writerVariantJSON("text emoțional suficient de lung")},
	}}
	writer := newTestWriter(client)

	variants, err := writer.Execute(context.Background(), WriterInput{
		Request:  testRequest(),
		Strategy: DefaultStrategy(domain.PostTypeSupportive),
	})
	if err != nil {
		t.Fatalf("nu așteptam eroare: %v", err)
	}

	bases := []float64{baseTemperatureSafe, baseTemperatureCreative, baseTemperatureEmotional}
	for i, variant := range variants {
		delta := variant.TemperatureUsed - bases[i]
		if delta < -temperatureSpread-1e-9 || delta > temperatureSpread+1e-9 {
			t.Fatalf("temperatura variantei %s (%v) a ieșit din jitterul %v±%v",
				variant.Kind, variant.TemperatureUsed, bases[i], temperatureSpread)
		}
		if client.requests[i].Temperature != variant.TemperatureUsed {
			t.Fatalf("temperatura trimisă (%v) diferă de cea raportată (%v)",
				client.requests[i].Temperature, variant.TemperatureUsed)
		}
	}
}

func TestWriterParseFailureUsesRawText(t *testing.T) {
	raw := "Un text care nu este JSON dar e perfect utilizabil ca postare."
	client := &stubClient{calls: []stubCall{
		{text: raw},
		{text: writerVariantJSON("text creativ suficient de lung")},
		{text: writerVariantJSON("text emoțional suficient de lung")},
	}}
	writer := newTestWriter(client)

	variants, err := writer.Execute(context.Background(), WriterInput{
		Request:  testRequest(),
		Strategy: DefaultStrategy(domain.PostTypeSupportive),
	})
	if err != nil {
		t.Fatalf("eșecul de parsare nu trebuie să se propage: %v", err)
	}
	if variants[0].Content != raw {
		t.Fatalf("textul brut trebuie folosit ca conținut: %q", variants[0].Content)
	}
	if variants[0].Kind != domain.VariantSafe {
		t.Fatalf("felul variantei trebuie păstrat: %s", variants[0].Kind)
	}
}

func TestWriterHookPatternsLimitedToTwo(t *testing.T) {
	client := &stubClient{calls: []stubCall{
		{text: writerVariantJSON("text sigur suficient de lung")},
		{text: writerVariantJSON("text creativ suficient de lung")},
		{text: writerVariantJSON("text emoțional suficient de lung")},
	}}
	writer := newTestWriter(client)

	if _, err := writer.Execute(context.Background(), WriterInput{
		Request:      testRequest(),
		Strategy:     DefaultStrategy(domain.PostTypeSupportive),
		HookPatterns: []string{"Primul hook", "Al doilea hook", "Al treilea hook"},
	}); err != nil {
		t.Fatalf("nu așteptam eroare: %v", err)
	}

	prompt := client.requests[0].Prompt
	if !strings.Contains(prompt, "Primul hook") || !strings.Contains(prompt, "Al doilea hook") {
		t.Fatal("primele două hook-uri trebuie incluse ca inspirație")
	}
	if strings.Contains(prompt, "Al treilea hook") {
		t.Fatal("al treilea hook nu trebuie inclus")
	}
	if !strings.Contains(prompt, "NU le copia") {
		t.Fatal("hook-urile trebuie marcate ca inspirație, nu pentru copiere")
	}
}

func TestWriterMediaSectionInPrompt(t *testing.T) {
	client := &stubClient{calls: []stubCall{
		{text: writerVariantJSON("text sigur suficient de lung")},
		{text: writerVariantJSON("text creativ suficient de lung")},
		{text: writerVariantJSON("text emoțional suficient de lung")},
	}}
	writer := newTestWriter(client)
	request := testRequest()
	request.MediaAnalysis = &domain.MediaAnalysis{
		Description: "Lumânări aprinse pe un fundal liniștit",
		Objects:     []string{"lumânări"},
		Mood:        "solemn",
	}

	if _, err := writer.Execute(context.Background(), WriterInput{
		Request:  request,
		Strategy: DefaultStrategy(domain.PostTypeSupportive),
	}); err != nil {
		t.Fatalf("nu așteptam eroare: %v", err)
	}
	if !strings.Contains(client.requests[0].Prompt, "Lumânări aprinse") {
		t.Fatal("descrierea media trebuie inclusă în prompt")
	}
}
