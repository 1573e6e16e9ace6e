// Package colorsplash is the mask engine behind an interactive colour
// splash tool: the user marks a foreground region on an image and the
// region is composited over a differently toned copy of the same image.
//
// A [Mask] classifies every pixel as Border, Fill or Empty. Borders come
// from an [EdgeDetector] via [BuildMask] and can be repaired with [Dilate]
// and [Bridge] so that [FloodFill] cannot leak through them. [FillAt]
// toggles the region under a click, [Swap] inverts the whole selection and
// [Overlay] / [Finalize] turn the mask back into pixels.
//
// Every operation returns a new buffer and leaves its inputs untouched.
//
// Grids store channels in B,G,R(,A) order so that the category values read
// the same as the classic edge-mask palette; [RGBFromImage], [RGB.Image]
// and [Mask.Image] convert at the boundary with the image package.
package colorsplash
