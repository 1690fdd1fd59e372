// Package preload keeps every instance of the registered entity types in
// memory.
//
// # Cache
//
// A Cache is created at session start, handed each entity type through a
// dedicated loader.Loader, and filled with Start. Start walks the type's
// root folder recursively, loads each instance from disk and stores its
// snapshot Record. Afterwards consumer loaders configured with
// loader.WithRecords(cache) are served from memory:
//
//	cache := preload.New(preload.WithLogger(logger))
//	if err := cache.Register(sampleScanner); err != nil {
//	    return err
//	}
//	if err := cache.Start(); err != nil {
//	    logger.Warn("some instances were skipped", "err", err)
//	}
//	defer cache.Stop()
//
// The cache never follows individual saves. A caller that writes an
// instance invalidates or reloads the type explicitly:
//
//	cache.ReloadFolder("Sample")
//
// # Failures
//
// An instance that cannot be read is skipped and logged; the remaining
// instances are still cached. The per-instance errors are joined and
// returned by Start and ReloadFolder.
package preload
