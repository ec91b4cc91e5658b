package image

import (
	"sort"

	"github.com/mmuldo/colormatch/colorspace"
)

type ColorCount struct {
	Color colorspace.RGB
	Count int
}

// ColorCountList sorts by descending count, then by color.
type ColorCountList []ColorCount

func (ccl ColorCountList) Len() int { return len(ccl) }
func (ccl ColorCountList) Less(i, j int) bool {
	if ccl[i].Count != ccl[j].Count {
		return ccl[i].Count > ccl[j].Count
	}
	return packRGB(ccl[i].Color) < packRGB(ccl[j].Color)
}
func (ccl ColorCountList) Swap(i, j int) { ccl[i], ccl[j] = ccl[j], ccl[i] }

// UniqueColors returns a map of a buffer's colors
// and the number of times each color occurs
func UniqueColors(buf *Buffer) map[colorspace.RGB]int {
	m := make(map[colorspace.RGB]int)
	for i := 0; i < buf.Len(); i++ {
		c, _ := buf.Pixel(i)
		m[c]++
	}
	return m
}

func RankColors(m map[colorspace.RGB]int) ColorCountList {
	cc := make(ColorCountList, 0, len(m))
	for k, v := range m {
		cc = append(cc, ColorCount{k, v})
	}

	sort.Sort(cc)
	return cc
}

func packRGB(c colorspace.RGB) uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}
