package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_EmptyInput(t *testing.T) {
	got := Classify(nil, "")
	assert.Equal(t, []string{GenreFiction}, got.Genres)
	assert.False(t, got.PartOfSeries)
	assert.False(t, got.AudiobookAvailable)

	got = Classify([]string{}, "")
	assert.Equal(t, []string{GenreFiction}, got.Genres)
}

func TestClassify_Series(t *testing.T) {
	tests := []struct {
		name     string
		subjects []string
		title    string
		want     bool
	}{
		{name: "numbered book title", title: "Dune Book 3", want: true},
		{name: "numbered part lowercase", title: "the return, part 2", want: true},
		{name: "hash in title", title: "Wool #1", want: true},
		{name: "trilogy in title", title: "The Lord of the Rings Trilogy", want: true},
		{name: "volume in title", title: "Collected Stories, Volume One", want: true},
		{name: "saga subject", subjects: []string{"Family saga"}, title: "Roots", want: true},
		{name: "book 1 subject", subjects: []string{"Book 1 of the Expanse"}, title: "Leviathan Wakes", want: true},
		{name: "standalone", subjects: []string{"Whales"}, title: "Moby Dick", want: false},
		{name: "bookish word is not a series", title: "Bookshop Memories", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.subjects, tt.title).PartOfSeries)
		})
	}
}

func TestClassify_EpicFantasyTrilogy(t *testing.T) {
	got := Classify([]string{"epic fantasy trilogy"}, "Wizard")
	assert.True(t, got.PartOfSeries)
	assert.Contains(t, got.Genres, GenreFantasy)
}

func TestClassify_GenreRuleOrder(t *testing.T) {
	tests := []struct {
		name     string
		subjects []string
		want     []string
	}{
		{name: "fiction", subjects: []string{"Juvenile fiction"}, want: []string{GenreFiction}},
		{name: "science fiction hits fiction first", subjects: []string{"Science fiction"}, want: []string{GenreFiction}},
		{name: "sci-fi", subjects: []string{"Sci-fi classics"}, want: []string{GenreScienceFiction}},
		{name: "non-fiction", subjects: []string{"Non-fiction"}, want: []string{GenreNonFiction}},
		{name: "biography lands in non-fiction", subjects: []string{"Biography"}, want: []string{GenreNonFiction}},
		{name: "biographical", subjects: []string{"Biographical novels"}, want: []string{GenreBiography}},
		{name: "crime", subjects: []string{"Crime"}, want: []string{GenreMystery}},
		{name: "magic", subjects: []string{"Magic"}, want: []string{GenreFantasy}},
		{name: "self help", subjects: []string{"Self help techniques"}, want: []string{GenreSelfHelp}},
		{name: "personal development hyphenated", subjects: []string{"Personal-development"}, want: []string{GenreSelfHelp}},
		{name: "management", subjects: []string{"Management"}, want: []string{GenreBusiness}},
		{name: "memoir", subjects: []string{"Memoirs"}, want: []string{GenreMemoir}},
		{name: "autobiography lands in non-fiction", subjects: []string{"Autobiography"}, want: []string{GenreNonFiction}},
		{
			name:     "deduplicated union in first-seen order",
			subjects: []string{"Fantasy", "Magic", "Detective and mystery stories", "Fiction", "Fantasy fiction"},
			want:     []string{GenreFantasy, GenreMystery, GenreFiction},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.subjects, "Title").Genres)
		})
	}
}

func TestClassify_OnlyFirstFifteenSubjects(t *testing.T) {
	subjects := make([]string, 15, 16)
	for i := range subjects {
		subjects[i] = "Whales"
	}
	subjects = append(subjects, "Fantasy")

	got := Classify(subjects, "Title")
	assert.Equal(t, []string{GenreFiction}, got.Genres)
}

func TestClassify_DefaultBiography(t *testing.T) {
	// "biography" always matches Non-Fiction first, so the default only
	// triggers through the people signal.
	got := ClassifyWithSignals([]string{"Whales"}, "Title", Signals{People: []string{"Ada Lovelace"}})
	assert.Equal(t, []string{GenreBiography}, got.Genres)
}

func TestClassify_Audiobook(t *testing.T) {
	tests := []struct {
		name     string
		subjects []string
		signals  Signals
		want     bool
	}{
		{name: "audiobook subject", subjects: []string{"Audiobooks"}, want: true},
		{name: "narration subject", subjects: []string{"Narration (Rhetoric)"}, want: true},
		{name: "borrowable ebook", signals: Signals{EbookAccess: "borrowable"}, want: true},
		{name: "no ebook", signals: Signals{EbookAccess: "no_ebook"}, want: false},
		{name: "archive id", signals: Signals{ArchiveIDs: []string{"dune00herb"}}, want: true},
		{name: "nothing", subjects: []string{"Whales"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyWithSignals(tt.subjects, "Title", tt.signals).AudiobookAvailable)
		})
	}
}
