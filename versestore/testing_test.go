package versestore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const gitaCSV = `chapter,verse,sanskrit,translation
2,47,कर्मण्येवाधिकारस्ते,You have a right to perform your prescribed duties.
2,48,योगस्थः कुरु कर्माणि,Perform your duty equipoised.
`

const sutraCSV = `Chapter, Verse, Sanskrit, Translation
1,2,योगश्चित्तवृत्तिनिरोधः,Yoga is the cessation of the fluctuations of the mind.
1,3,तदा द्रष्टुः स्वरूपेऽवस्थानम्,Then the Seer abides in Its own true nature.
`
