// Package studiomap draws positioning maps of animation studios: originality
// score on the x axis against team size on a log10 y axis, annotated with
// tick gridlines, labels, a legend, callouts and founded-to-current growth
// trajectories.
//
// Renderers are pure functions from records and a PlotSpace to draw
// commands. Compose orders them into named layers for one MapView, and the
// executors apply a composed Map to a PowerPoint slide (PPTXExecutor) or to
// SVG (WriteSVG). The Assembler builds a whole deck from a DeckSpec and
// RenderPage builds the interactive HTML page.
package studiomap
