// Package asset resolves image URLs for the editor.
//
// A [Loader] fetches an image, decodes only its header to learn the natural
// size and format, and caches the result. Supported formats are those of the
// standard library (PNG, JPEG, GIF) plus BMP, TIFF and WebP from
// golang.org/x/image.
//
// # Failures
//
// Every failed attempt is retried with exponential backoff (3 attempts,
// 1s doubling by default). When all attempts fail the last failure is
// returned as a [*LoadError] inside a RESOURCE_LOAD error, classified as
// cross-origin, not-found, network or other so the caller can show a
// specific message.
//
// Cross-origin checks mirror what a browser would enforce for an anonymous
// request: when the loader has an Origin configured, the response must
// carry a matching Access-Control-Allow-Origin header.
package asset
