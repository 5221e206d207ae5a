// Package seed carries small built-in corpora for the Upanishads, the
// Brahma Sutras and the Yoga Sutras, so a fresh installation has more than
// the Bhagavad Gita to search.
package seed

import (
	"path/filepath"

	"github.com/poiesic/saarthi/core"
	"github.com/poiesic/saarthi/versestore"
)

// Corpus is a named set of verses written to one source file.
type Corpus struct {
	Filename string
	Source   string
	Verses   []core.VerseRecord
}

func verse(source, chapter, v, sanskrit, translation string) core.VerseRecord {
	return core.VerseRecord{Source: source, Chapter: chapter, Verse: v, Sanskrit: sanskrit, Translation: translation}
}

// The great sayings and core verses of the principal Upanishads. Chapters
// are the Upanishad names and verses are composite section numbers.
func upanishads() []core.VerseRecord {
	const s = core.SourceUpanishads
	return []core.VerseRecord{
		verse(s, "Brihadaranyaka", "1.4.10", "अहं ब्रह्मास्मि", "I am Brahman (the Ultimate Reality)."),
		verse(s, "Chandogya", "6.8.7", "तत् त्वम् असि", "You are That (the Ultimate Reality)."),
		verse(s, "Mandukya", "2", "अयमात्मा ब्रह्म", "This Self (Atman) is Brahman."),
		verse(s, "Aitareya", "3.3", "प्रज्ञानं ब्रह्म", "Consciousness is Brahman."),
		verse(s, "Isha", "1", "ईशा वास्यमिदं सर्वं...", "All this is pervaded by the Lord; enjoy through renunciation."),
		verse(s, "Katha", "1.2.20", "अणोरणीयान्महतो महीयान्...", "The Self is subtler than the subtle, greater than the great."),
		verse(s, "Mundaka", "3.1.6", "सत्यमेव जयते", "Truth alone triumphs, not falsehood."),
		verse(s, "Taittiriya", "2.1", "सत्यं ज्ञानमनन्तं ब्रह्म", "Brahman is Truth, Knowledge, and Infinite."),
		verse(s, "Shvetashvatara", "4.10", "मायां तु प्रकृतिं विद्यान्...", "Know Prakriti (Nature) to be Maya, and the Great Lord as the ruler of Maya."),
	}
}

// The first four aphorisms (Chatussutri) of the Brahma Sutras.
func brahmaSutras() []core.VerseRecord {
	const s = core.SourceBrahmaSutras
	return []core.VerseRecord{
		verse(s, "1", "1", "अथातो ब्रह्मजिज्ञासा", "Now, therefore, the inquiry into Brahman."),
		verse(s, "1", "2", "जन्माद्यस्य यतः", "Brahman is That from which the origin, sustenance, and dissolution of this universe proceed."),
		verse(s, "1", "3", "शास्त्रयोनित्वात्", "The scripture (Veda) is the source of right knowledge concerning Brahman."),
		verse(s, "1", "4", "तत्तु समन्वयात्", "But that Brahman is known from the Upanishads, because they all have It as their main purport."),
	}
}

// Selected sutras of the Samadhi Pada.
func yogaSutras() []core.VerseRecord {
	const s = core.SourceYogaSutras
	return []core.VerseRecord{
		verse(s, "1", "1", "अथ योगानुशासनम्", "Now, the instruction of Yoga begins."),
		verse(s, "1", "2", "योगश्चित्तवृत्तिनिरोधः", "Yoga is the settling of the mind into silence (cessation of mental fluctuations)."),
		verse(s, "1", "3", "तदा द्रष्टुः स्वरूपेऽवस्थानम्", "Then the Seer (Self) abides in Its own true nature."),
		verse(s, "1", "4", "वृत्तिसारूप्यमितरत्र", "At other times, the Self appears to take the form of the mental modifications."),
		verse(s, "1", "5", "वृत्तयः पञ्चतय्यः क्लिष्टाक्लिष्टाः", "There are five kinds of mental modifications, which are either painful or painless."),
		verse(s, "1", "12", "अभ्यासवैराग्याभ्यां तन्निरोधः", "The mind is mastered through practice (Abhyasa) and non-attachment (Vairagya)."),
		verse(s, "1", "13", "तत्र स्थितौ यत्नोऽभ्यासः", "Practice is the sustained effort to rest in that stillness."),
		verse(s, "1", "33", "मैत्रीकरुणामुदितोपेक्षाणां...", "The mind becomes serene by cultivating friendliness, compassion, delight, and equanimity toward all."),
	}
}

// Corpora returns the built-in corpora. The verses are fresh copies on
// every call.
func Corpora() []Corpus {
	return []Corpus{
		{Filename: "upanishads.csv", Source: core.SourceUpanishads, Verses: upanishads()},
		{Filename: "brahma_sutras.csv", Source: core.SourceBrahmaSutras, Verses: brahmaSutras()},
		{Filename: "yoga_sutras.csv", Source: core.SourceYogaSutras, Verses: yogaSutras()},
	}
}

// Write writes every corpus to dir, one CSV file each, and returns the
// written paths. Files carry a source column, so they load correctly
// whatever their names.
func Write(dir string) ([]string, error) {
	corpora := Corpora()
	paths := make([]string, 0, len(corpora))
	for _, c := range corpora {
		path := filepath.Join(dir, c.Filename)
		if err := versestore.WriteFile(path, c.Verses); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
