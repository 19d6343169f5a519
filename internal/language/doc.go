// Package language maps filenames to supported language tags.
//
// Classification is a total function: any filename, including ones with no
// extension at all, resolves to a tag. Unknown extensions fall back to the
// supplied default rather than producing an error, so upload handlers never
// have to special-case exotic filenames.
package language
