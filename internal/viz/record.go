package viz

import (
	"errors"
	"image"
	"image/color"
	"image/gif"
	"os"
)

const (
	cellWidth  = 8
	cellHeight = 16

	// MaxRecordedFrames bounds a recording to the last ten seconds at 60 fps.
	MaxRecordedFrames = 600
)

var ErrNothingRecorded = errors.New("viz: no frames recorded")

// Recorder turns canvas snapshots into an animated GIF.
type Recorder struct {
	frames  []*image.Paletted
	palette color.Palette
}

func NewRecorder() *Recorder {
	return &Recorder{palette: color.Palette{
		color.RGBA{0x00, 0x00, 0x8b, 0xff},
		color.RGBA{0xff, 0xff, 0x00, 0xff},
	}}
}

func (r *Recorder) Len() int { return len(r.frames) }

// Capture rasterises every set dot of c as a block of pixels. Once
// MaxRecordedFrames are held, the oldest frame is dropped.
func (r *Recorder) Capture(c *Canvas) {
	img := image.NewPaletted(image.Rect(0, 0, c.Width*cellWidth, c.Height*cellHeight), r.palette)
	dotW, dotH := cellWidth/2, cellHeight/4
	w, h := c.Dots()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !c.IsSet(x, y) {
				continue
			}
			for py := 0; py < dotH; py++ {
				for px := 0; px < dotW; px++ {
					img.SetColorIndex(x*dotW+px, y*dotH+py, 1)
				}
			}
		}
	}
	if len(r.frames) >= MaxRecordedFrames {
		copy(r.frames, r.frames[1:])
		r.frames = r.frames[:len(r.frames)-1]
	}
	r.frames = append(r.frames, img)
}

// Save writes the recorded frames to path and clears the recorder.
func (r *Recorder) Save(path string) error {
	if len(r.frames) == 0 {
		return ErrNothingRecorded
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := gif.EncodeAll(f, &anim); err != nil {
		return err
	}
	r.frames = nil
	return nil
}
