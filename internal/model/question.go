package model

// Language of a question.
type Language string

const (
	LangEnglish Language = "ENGLISH"
	LangGerman  Language = "GERMAN"
)

// Difficulty of a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// Category of a question.
type Category string

const (
	CatGeneralKnowledge   Category = "GENERAL_KNOWLEDGE"
	CatBooks              Category = "ENTERTAINMENT_BOOKS"
	CatFilm               Category = "ENTERTAINMENT_FILM"
	CatMusic              Category = "ENTERTAINMENT_MUSIC"
	CatMusicalsTheatres   Category = "ENTERTAINMENT_MUSICALS_THEATRES"
	CatTelevision         Category = "ENTERTAINMENT_TELEVISION"
	CatVideoGames         Category = "ENTERTAINMENT_VIDEO_GAMES"
	CatBoardGames         Category = "ENTERTAINMENT_BOARD_GAMES"
	CatComics             Category = "ENTERTAINMENT_COMICS"
	CatAnimeManga         Category = "ENTERTAINMENT_JAPANESE_ANIME_MANGA"
	CatCartoonAnimations  Category = "ENTERTAINMENT_CARTOON_ANIMATIONS"
	CatScienceNature      Category = "SCIENCE_AND_NATURE"
	CatScienceComputers   Category = "SCIENCE_COMPUTERS"
	CatScienceMathematics Category = "SCIENCE_MATHEMATICS"
	CatScienceGadgets     Category = "SCIENCE_GADGETS"
	CatMythology          Category = "MYTHOLOGY"
	CatSports             Category = "SPORTS"
	CatGeography          Category = "GEOGRAPHY"
	CatHistory            Category = "HISTORY"
	CatPolitics           Category = "POLITICS"
	CatArt                Category = "ART"
	CatCelebrities        Category = "CELEBRITIES"
	CatAnimals            Category = "ANIMALS"
	CatVehicles           Category = "VEHICLES"
)

// Question is a guesstimate question. The answer is numeric; players bid on
// how close their guess is.
type Question struct {
	ID        int64  `json:"id"`
	Author    string `json:"author"`
	CreatedAt int64  `json:"createdAt"`

	Language   Language   `json:"language"`
	Difficulty Difficulty `json:"difficulty"`
	Category   Category   `json:"category"`

	Question   string   `json:"question"`
	Answer     float64  `json:"answer"`
	AnswerUnit string   `json:"answerUnit"`
	Hints      []string `json:"hints"`
}

// QuestionQuery filters random question selection. Empty slices match
// everything.
type QuestionQuery struct {
	Amount       int          `json:"amount"`
	Languages    []Language   `json:"languages"`
	Categories   []Category   `json:"categories"`
	Difficulties []Difficulty `json:"difficulties"`
}

// Normalize clamps the requested amount to a sane range.
func (q *QuestionQuery) Normalize() {
	if q.Amount < 0 {
		q.Amount = 0
	}
	if q.Amount > 50 {
		q.Amount = 50
	}
}
