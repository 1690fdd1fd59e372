// Package sample defines the entity types shipped with the store.
//
// Sample is the minimal type: a JSON blob "Data" and an image "Sprite" used
// as icon. Character exercises every part kind: a stats blob, a portrait,
// a locked animation set and a voice line.
//
// Each constructor creates fresh live values and binds a loader.Loader to
// them. The loader is embedded, so a *Sample can be loaded and saved
// directly:
//
//	s, err := sample.NewSample(fs, loader.WithRecords(cache))
//	if err != nil {
//	    return err
//	}
//	if err := s.Load("Hero", nil); err != nil {
//	    return err
//	}
//	fmt.Println(s.Data.Number)
//
// Types lists every entity type so sessions can register them generically.
package sample
