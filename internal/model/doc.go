// Package model defines the core data structures shared by the store,
// the loaders and the preload cache.
//
// # Addresses
//
// An instance is addressed by its entity type folder, its name and the
// folder path it is nested under:
//
//	addr := model.Address{Type: "Sample", Name: "Hero", Folder: model.ParseFolderPath("Bosses")}
//	fmt.Println(addr) // Sample:Bosses/Hero
//
// # Records
//
// Record is an immutable snapshot of every part value of one instance,
// keyed by part name:
//
//	rec, _ := model.NewRecord(
//	    model.Entry{Part: "Data", Value: `{"Description":"x","Number":3}`},
//	    model.Entry{Part: "Sprite", Value: img},
//	)
//
// # Errors
//
// ErrNotFound, ErrWriteFailure, ErrTypeMismatch and ErrImpossible form the
// error taxonomy. Use errors.Is to classify an error returned by any layer.
package model
