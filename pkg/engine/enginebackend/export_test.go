package enginebackend

func PaintOnce(b Backend, settings Settings, w, h int, frameIndex uint64) []byte {
	pb := b.(*paintBackend)
	dst := make([]byte, w*h*4)
	pb.newPainter(settings).paint(dst, w, h, frameIndex)
	return dst
}
