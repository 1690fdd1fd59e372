// Package session ties the store together for one editor run.
//
// # Session
//
// A Session is built from the settings and a progress callback, then
// started:
//
//  1. Create the content root and its .gdignore file
//  2. Create the root folder of every entity type
//  3. Register a dedicated scanning loader per type with the preload cache
//  4. Build the editing loader per type, reading through the cache
//  5. Preload every type (optional)
//
// # Basic Usage
//
//	sess, err := session.New(settings, func(event session.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := sess.Start(); err != nil {
//	    log.Fatal(err)
//	}
//	defer sess.Stop()
//
//	items, err := sess.List("Sample", nil)
//
// # Browse Commands
//
// List, Open, NewInstance, Save, CreateFolder, Delete and Reload back the
// content browser. Save and Delete reload the type's cache afterwards so the
// next Open sees the change.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//   - LevelInfo: General information
//   - LevelVerbose: Detailed progress
//   - LevelWarning: Instances skipped during preload
//   - LevelError: Failed saves and deletes
//   - LevelSuccess: Completed operations
//
// Every method is safe to call from a goroutine; operations run one at a
// time.
package session
