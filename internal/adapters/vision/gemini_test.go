package vision

import (
	"bytes"
	"strings"
	"testing"
)

func TestValidateMediaAcceptsSupportedFormats(t *testing.T) {
	for _, mime := range []string{"image/jpeg", "image/png", "image/gif", "image/webp", "video/mp4", "video/webm"} {
		if err := ValidateMedia([]byte("date"), mime); err != nil {
			t.Fatalf("formatul %s trebuia acceptat: %v", mime, err)
		}
	}
}

func TestValidateMediaRejectsUnknownFormat(t *testing.T) {
	err := ValidateMedia([]byte("date"), "application/pdf")
	if err == nil {
		t.Fatal("formatul necunoscut trebuia respins")
	}
	if !strings.Contains(err.Error(), "format neacceptat") {
		t.Fatalf("mesajul de eroare greșit: %v", err)
	}
}

func TestValidateMediaRejectsOversizeImage(t *testing.T) {
	big := bytes.Repeat([]byte{0}, maxImageSize+1)
	if err := ValidateMedia(big, "image/jpeg"); err == nil {
		t.Fatal("imaginea peste limită trebuia respinsă")
	}
	// Aceeași dimensiune e în regulă pentru video.
	if err := ValidateMedia(big, "video/mp4"); err != nil {
		t.Fatalf("videoul sub limită trebuia acceptat: %v", err)
	}
}

func TestValidateMediaRejectsOversizeVideo(t *testing.T) {
	big := bytes.Repeat([]byte{0}, maxVideoSize+1)
	if err := ValidateMedia(big, "video/webm"); err == nil {
		t.Fatal("videoul peste limită trebuia respins")
	}
}

func TestExtractAnalysisFindsEmbeddedJSON(t *testing.T) {
	text := "Iată analiza:\n{\"description\": \"Lumânări aprinse\", \"mood\": \"solemn\", \"isAppropriate\": true}\nSper să ajute."
	parsed, ok := extractAnalysis(text)
	if !ok {
		t.Fatal("obiectul JSON încorporat trebuia găsit")
	}
	if parsed.Description != "Lumânări aprinse" || parsed.Mood != "solemn" || !parsed.IsAppropriate {
		t.Fatalf("analiza decodată greșit: %+v", parsed)
	}
}

func TestExtractAnalysisFailsWithoutJSON(t *testing.T) {
	if _, ok := extractAnalysis("niciun obiect aici"); ok {
		t.Fatal("textul fără JSON nu trebuia decodat")
	}
}

func TestFallbackAnalysisIsNeutral(t *testing.T) {
	analysis := fallbackAnalysis()
	if !analysis.IsAppropriate {
		t.Fatal("analiza de rezervă trebuie marcată ca potrivită")
	}
	if analysis.FuneralContext == nil || analysis.FuneralContext.SuggestedTone != "respectuos" {
		t.Fatalf("tonul de rezervă greșit: %+v", analysis.FuneralContext)
	}
}
