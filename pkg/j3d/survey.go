package j3d

import (
	"runtime"
)

// Summary describes one model found by Survey.
type Summary struct {
	Path      string
	Type      string
	Chunks    int
	Materials int // exposed material names
	Records   int // physical material records
	Legacy    bool
	// Err is set when the model could not be read. A model without a material
	// chunk is not an error; Materials is then -1.
	Err error
}

func summarize(path string) Summary {
	s := Summary{Path: path, Materials: -1}
	f, err := ReadFile(path)
	if err != nil {
		s.Err = err
		return s
	}
	s.Type = f.Type()
	s.Chunks = f.ChunkCount()
	if c, _ := f.materialChunk(); c == nil {
		return s
	}
	t, err := f.Materials()
	if err != nil {
		s.Err = err
		return s
	}
	s.Materials = len(t.Materials)
	s.Records = t.PhysicalCount()
	s.Legacy = t.Legacy
	return s
}

// Survey reads the models concurrently and delivers their summaries in the order of
// paths. The channel is closed after the last one.
func Survey(paths []string) <-chan Summary {
	lookahead := runtime.NumCPU() * 4
	futures := make(chan chan Summary, lookahead)
	out := make(chan Summary)

	go func() {
		defer close(futures)
		for _, p := range paths {
			ch := make(chan Summary, 1)
			futures <- ch
			go func(path string) {
				ch <- summarize(path)
			}(p)
		}
	}()

	go func() {
		defer close(out)
		for ch := range futures {
			out <- <-ch
		}
	}()
	return out
}
