// Package translate turns source-language text into target-language text.
//
// Translator is the boundary the pipeline depends on. Google talks to the
// public Google Translate web endpoint, Retrying wraps any Translator with
// exponential backoff, and Func adapts a plain function for tests and static
// lookup tables.
//
// Language codes are passed through untouched ("ko", "en", ...). No language
// detection is done here.
package translate
