package enginebackend

type gradientPainter struct{}

func newGradientPainter(Settings) painter {
	return gradientPainter{}
}

func (gradientPainter) paint(dst []byte, w, h int, frameIndex uint64) {
	shift := int(frameIndex % 256)
	for y := 0; y < h; y++ {
		row := dst[y*w*4 : (y+1)*w*4]
		g := byte(y * 255 / maxInt(h-1, 1))
		for x := 0; x < w; x++ {
			i := x * 4
			row[i+0] = byte((x*255/maxInt(w-1, 1) + shift) % 256)
			row[i+1] = g
			row[i+2] = byte(shift)
			row[i+3] = 0xFF
		}
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
