package catalog

import (
	"time"

	"github.com/lucedivina/storefront/internal/types"
)

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

// SeedProducts returns the starter catalog used on first run and by the
// reset operation.
func SeedProducts() []types.Product {
	return []types.Product{
		{
			ID:          "1",
			Kind:        types.KindBook,
			Title:       "La Parola che Guida",
			Author:      "Marco Rossi",
			Code:        "B09XYZ123",
			Price:       14.99,
			Language:    "Italiano",
			Format:      "Cartaceo",
			Description: "Un viaggio spirituale profondo attraverso la fede cristiana. Questo libro ti accompagnerà in una riflessione quotidiana sulla Parola di Dio, offrendo meditazioni, preghiere e spunti pratici per vivere la tua fede ogni giorno.",
			Images:      []string{"https://images.unsplash.com/photo-1544947950-fa07a98d237f?w=400"},
			SourceURL:   "https://amazon.it/dp/B09XYZ123",
			Categories:  []string{"Spiritualità", "Fede"},
			Tags:        []string{"ispirazione", "preghiera", "meditazione"},
			Inventory:   10,
			Status:      types.StatusInStock,
			Rating:      4.8,
			Reviews:     127,
			UpdatedAt:   day("2024-01-15"),
		},
		{
			ID:          "2",
			Kind:        types.KindBook,
			Title:       "Salmi per il Cuore",
			Author:      "Anna Benedetti",
			Code:        "B09ABC456",
			Price:       18.50,
			Language:    "Italiano",
			Format:      "Cartaceo",
			Description: "Una raccolta commentata dei Salmi più amati, con riflessioni profonde e applicazioni pratiche per la vita moderna. Perfetto per lo studio personale o in gruppo.",
			Images:      []string{"https://images.unsplash.com/photo-1481627834876-b7833e8f5570?w=400"},
			SourceURL:   "https://amazon.it/dp/B09ABC456",
			Categories:  []string{"Bibbia", "Studio"},
			Tags:        []string{"salmi", "studio biblico", "meditazione"},
			Inventory:   25,
			Status:      types.StatusInStock,
			Rating:      4.9,
			Reviews:     89,
			UpdatedAt:   day("2024-01-10"),
		},
		{
			ID:          "3",
			Kind:        types.KindMusic,
			Title:       "Adorazione Eterna",
			Author:      "Worship Italia",
			Code:        "M09DEF789",
			Price:       12.99,
			Language:    "Italiano",
			Format:      "CD",
			Description: "Album di adorazione contemporanea con 12 brani originali che elevano l'anima. Perfetto per momenti di preghiera personale o culto comunitario.",
			Images:      []string{"https://images.unsplash.com/photo-1493225457124-a3eb161ffa5f?w=400"},
			SourceURL:   "https://amazon.it/dp/M09DEF789",
			Categories:  []string{"Worship", "Contemporaneo"},
			Tags:        []string{"adorazione", "worship", "italiano"},
			Inventory:   50,
			Status:      types.StatusInStock,
			Rating:      4.7,
			Reviews:     234,
			UpdatedAt:   day("2024-01-12"),
		},
		{
			ID:          "4",
			Kind:        types.KindBook,
			Title:       "Crescere nella Fede",
			Author:      "Don Paolo Martini",
			Code:        "B09GHI012",
			Price:       22.00,
			Language:    "Italiano",
			Format:      "Cartaceo",
			Description: "Una guida completa per il cammino di fede, dall'introduzione ai sacramenti fino alla maturità spirituale. Ideale per catechisti e gruppi parrocchiali.",
			Images:      []string{"https://images.unsplash.com/photo-1507842217343-583bb7270b66?w=400"},
			SourceURL:   "https://amazon.it/dp/B09GHI012",
			Categories:  []string{"Catechesi", "Formazione"},
			Tags:        []string{"formazione", "catechismo", "sacramenti"},
			Inventory:   15,
			Status:      types.StatusInStock,
			Rating:      4.6,
			Reviews:     56,
			UpdatedAt:   day("2024-01-08"),
		},
		{
			ID:          "5",
			Kind:        types.KindMusic,
			Title:       "Inni della Tradizione",
			Author:      "Coro San Pietro",
			Code:        "M09JKL345",
			Price:       15.99,
			Language:    "Italiano",
			Format:      "CD",
			Description: "Una raccolta preziosa dei più bei inni della tradizione cristiana, interpretati dal rinomato Coro San Pietro. 18 brani che toccano il cuore.",
			Images:      []string{"https://images.unsplash.com/photo-1458560871784-56d23406c091?w=400"},
			SourceURL:   "https://amazon.it/dp/M09JKL345",
			Categories:  []string{"Tradizionale", "Corale"},
			Tags:        []string{"inni", "tradizione", "coro"},
			Inventory:   30,
			Status:      types.StatusInStock,
			Rating:      4.9,
			Reviews:     178,
			UpdatedAt:   day("2024-01-05"),
		},
		{
			ID:          "6",
			Kind:        types.KindBook,
			Title:       "Preghiere per Ogni Momento",
			Author:      "Suor Maria Grazia",
			Code:        "B09MNO678",
			Price:       9.99,
			Language:    "Italiano",
			Format:      "eBook",
			Description: "Un compagno di preghiera digitale per ogni occasione. Dalla mattina alla sera, dalla gioia al dolore, troverai le parole giuste per rivolgerti al Signore.",
			Images:      []string{"https://images.unsplash.com/photo-1529070538774-1843cb3265df?w=400"},
			SourceURL:   "https://amazon.it/dp/B09MNO678",
			Categories:  []string{"Preghiera", "Devozione"},
			Tags:        []string{"preghiera", "quotidiano", "digitale"},
			Inventory:   999,
			Status:      types.StatusInStock,
			Rating:      4.5,
			Reviews:     312,
			UpdatedAt:   day("2024-01-14"),
		},
		{
			ID:          "7",
			Kind:        types.KindMusic,
			Title:       "Giovani in Cammino",
			Author:      "Gen Verde",
			Code:        "M09PQR901",
			Price:       11.99,
			Language:    "Italiano",
			Format:      "MP3",
			Description: "Album energico e coinvolgente per i giovani cristiani. Brani che parlano di speranza, amicizia e fede in modo fresco e contemporaneo.",
			Images:      []string{"https://images.unsplash.com/photo-1511671782779-c97d3d27a1d4?w=400"},
			SourceURL:   "https://amazon.it/dp/M09PQR901",
			Categories:  []string{"Giovani", "Pop Cristiano"},
			Tags:        []string{"giovani", "energia", "speranza"},
			Inventory:   200,
			Status:      types.StatusInStock,
			Rating:      4.8,
			Reviews:     445,
			UpdatedAt:   day("2024-01-11"),
		},
		{
			ID:          "8",
			Kind:        types.KindBook,
			Title:       "La Famiglia secondo Dio",
			Author:      "Giovanni e Maria Bianchi",
			Code:        "B09STU234",
			Price:       16.50,
			Language:    "Italiano",
			Format:      "Cartaceo",
			Description: "Una guida pratica per vivere i valori cristiani in famiglia. Dalla comunicazione all'educazione dei figli, un percorso di crescita insieme.",
			Images:      []string{"https://images.unsplash.com/photo-1476234251651-f353703a034d?w=400"},
			SourceURL:   "https://amazon.it/dp/B09STU234",
			Categories:  []string{"Famiglia", "Educazione"},
			Tags:        []string{"famiglia", "genitori", "valori"},
			Inventory:   8,
			Status:      types.StatusInStock,
			Rating:      4.7,
			Reviews:     93,
			UpdatedAt:   day("2024-01-09"),
		},
	}
}
