// Package export renders a scene to files.
//
// Every renderer consumes the scene through [scene.Scene.Walk], so it sees
// objects in paint order with their absolute transforms. Groups contribute
// no marks of their own; hidden objects (and the children of hidden groups)
// are skipped.
//
// Supported formats:
//
//   - SVG: vector output, one element per object ([RenderSVG])
//   - PNG: raster output via fogleman/gg with a scale multiplier ([RenderPNG])
//   - PDF: single-page document via gofpdf ([RenderPDF])
//   - JSON: the flat record list used for persistence ([RenderJSON])
//   - DOT and tree SVG: the object hierarchy as a Graphviz graph, for
//     debugging grouping ([ToDOT], [RenderTreeSVG])
//
// The output frame is the union of the visible objects' bounds plus padding.
// Images are drawn as placeholders in PNG and PDF output because the
// renderers do not fetch remote content.
package export
