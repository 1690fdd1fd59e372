// Package part implements the typed fields of an entity type.
//
// A Part is one named field with a fixed storage kind:
//
//   - KindBlob: a Serializable value stored as one text file
//   - KindImage: a single raster image file
//   - KindSpriteSet: named animations stored as a metadata file plus one
//     frame strip per animation, optionally locked to declared names
//   - KindAudio: a reference to an audio file copied into the instance
//
// The set of kinds is closed; every operation switches over Kind.
//
// Live values are owned by the host. A part reads and writes them through an
// Accessor supplied at construction; Slot is a ready-made accessor that also
// notifies observers when its value changes:
//
//	sprite := part.NewSlot[*image.NRGBA]()
//	p := part.NewImage("Sprite", sprite)
//	err := p.Load(fsys, "/GameData/Sample/Hero")
//	img := sprite.Get()
package part
