package pipeline

// Vocabularul de brand 2026: termeni interziși și înlocuitorii lor recomandați.
// Scriitorul primește ambele liste la fiecare apel.
var (
	forbiddenVocabulary = []string{
		"Moarte", "Cadavru", "Decedat", "Stârv",
		"Client", "Cumpărător", "Consumator",
		"Preț", "Factură", "Ieftin", "Business", "Profit",
		"Îmbălsămare", "Manipulare trup", "Spălare",
		"Mașină de mort", "Transport cadavru",
		"Coșciug", "Cutie", "Ladă de lemn",
		"Urgență",
	}

	recommendedVocabulary = []string{
		"Trecere", "Plecare", "Cel drag", "Defunct", "Somn etern",
		"Familie îndoliată", "Aparținători", "Parteneri în durere",
		"Investiție în demnitate", "Pachete accesibile", "Sprijin financiar", "Onorariu",
		"Tanatopraxie", "Pregătire estetică", "Îngrijire post-mortem",
		"Flotă de omagiu", "Limuzină Mercedes", "Transport solemn",
		"Ultimul adăpost", "Sicriu lucrat artizanal", "Aranjament",
		"Suport imediat",
	}

	// Clișee comerciale interzise indiferent de vocabularul de brand.
	forbiddenCliches = []string{
		"nu ratați", "grăbiți-vă", "ofertă specială",
		"reducere", "promoție", "cel mai bun",
		"garantăm", "100%", "wow", "amazing",
	}
)

// contentPillar descrie un pilon de conținut din strategia editorială.
type contentPillar struct {
	Name      string
	Focus     string
	Narrative string
}

var contentPillars = []contentPillar{
	{Name: "Autoritate și Moștenire", Focus: "Logistica de Elită", Narrative: "Garanția unui transport solemn, rigoare profesională, devotament."},
	{Name: "Utilitate și Ghidaj Administrativ", Focus: "Birocrație redusă", Narrative: "Partenerul care preia povara birocratică. Transparență totală."},
	{Name: "Empatie și Suport Emoțional", Focus: "Inima strategiei", Narrative: "Nu vindem, ci suntem prezenți. Partener pentru liniște."},
	{Name: "Estetică și Florărie Funerară", Focus: "Frumosul care alină", Narrative: "Viața continuă în amintire prin frumusețe."},
	{Name: "Transparență și Demistificare", Focus: "Educație", Narrative: "Eliminarea fricii de necunoscut prin educație sinceră."},
}
