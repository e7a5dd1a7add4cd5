// Package vision finds a template image inside a screenshot.
//
// Matching works on grayscale copies. Large images are first searched at a
// reduced scale, then the best candidates are refined at full resolution.
// When no refined candidate reaches the threshold, every placement is tried
// at full resolution, seeded with the refined score so that most placements
// are abandoned after a few rows.
//
// The similarity of a placement is 1 - meanAbsDiff/255, so identical pixels
// score 1 and a threshold of 90% accepts an average difference of about 25
// gray levels.
package vision

import (
	"fmt"
	"image"
	_ "image/png" // register PNG decoding
	"io"
	"os"
	"sort"

	_ "golang.org/x/image/bmp" // register BMP decoding
	"golang.org/x/image/draw"
)

const (
	// minCoarseSide is the smallest template side, in pixels, the coarse
	// search may shrink a template to.
	minCoarseSide = 8
	maxFactor     = 8
	candidates    = 5
)

// LoadImage decodes a PNG or BMP file.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return img, nil
}

// Decode reads a PNG or BMP image.
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// Match looks for tmpl in screen. It returns the center of the best
// placement in screen coordinates, its similarity and whether the similarity
// reaches thresholdPercent.
func Match(screen, tmpl image.Image, thresholdPercent int) (center image.Point, score float64, ok bool) {
	s := toGray(screen)
	t := toGray(tmpl)

	sw, sh := s.Bounds().Dx(), s.Bounds().Dy()
	tw, th := t.Bounds().Dx(), t.Bounds().Dy()
	if tw == 0 || th == 0 || tw > sw || th > sh {
		return image.Point{}, 0, false
	}

	best := placement{score: -1}
	if factor := coarseFactor(tw, th); factor > 1 {
		best = refine(s, t, factor)
	}
	if !accepts(best.score, thresholdPercent) {
		best = search(s, t, image.Rect(0, 0, sw-tw+1, sh-th+1), best)
	}

	center = image.Point{
		X: screen.Bounds().Min.X + best.at.X + tw/2,
		Y: screen.Bounds().Min.Y + best.at.Y + th/2,
	}

	return center, best.score, accepts(best.score, thresholdPercent)
}

func accepts(score float64, thresholdPercent int) bool {
	return score*100 >= float64(thresholdPercent)
}

type placement struct {
	at    image.Point
	score float64
}

func coarseFactor(tw, th int) int {
	side := min(tw, th)

	f := side / minCoarseSide
	if f < 1 {
		return 1
	}

	return min(f, maxFactor)
}

// refine searches a shrunk copy, then the neighbourhood of the best coarse
// placements at full size.
func refine(s, t *image.Gray, factor int) placement {
	small := scale(s, factor)
	smallT := scale(t, factor)

	sw, sh := small.Bounds().Dx(), small.Bounds().Dy()
	tw, th := smallT.Bounds().Dx(), smallT.Bounds().Dy()

	var coarse []placement
	for y := 0; y <= sh-th; y++ {
		for x := 0; x <= sw-tw; x++ {
			at := image.Pt(x, y)
			coarse = append(coarse, placement{at: at, score: similarity(small, smallT, at, 0)})
		}
	}

	sort.Slice(coarse, func(i, j int) bool {
		return coarse[i].score > coarse[j].score
	})
	if len(coarse) > candidates {
		coarse = coarse[:candidates]
	}

	limit := image.Rect(0, 0,
		s.Bounds().Dx()-t.Bounds().Dx()+1,
		s.Bounds().Dy()-t.Bounds().Dy()+1)

	best := placement{score: -1}
	for _, c := range coarse {
		area := image.Rect(
			(c.at.X-1)*factor, (c.at.Y-1)*factor,
			(c.at.X+2)*factor, (c.at.Y+2)*factor,
		).Intersect(limit)

		if p := search(s, t, area, placement{score: -1}); p.score > best.score {
			best = p
		}
	}

	// The best placement may sit on the edge of its window with a better
	// one just outside it.
	around := image.Rect(
		best.at.X-factor, best.at.Y-factor,
		best.at.X+factor+1, best.at.Y+factor+1,
	).Intersect(limit)

	return search(s, t, around, best)
}

// search tries every top-left corner in area and returns the best placement
// that beats best.
func search(s, t *image.Gray, area image.Rectangle, best placement) placement {
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			at := image.Pt(x, y)
			if sc := similarity(s, t, at, best.score); sc > best.score {
				best = placement{at: at, score: sc}
			}
		}
	}

	if best.score < 0 {
		best.score = 0
	}

	return best
}

// similarity compares t with the region of s at the given offset. The sum
// is abandoned once the result cannot beat floor.
func similarity(s, t *image.Gray, at image.Point, floor float64) float64 {
	tw, th := t.Bounds().Dx(), t.Bounds().Dy()
	n := float64(tw * th)

	budget := -1.0
	if floor > 0 {
		budget = (1 - floor) * n * 255
	}

	var diff float64
	for y := 0; y < th; y++ {
		srow := s.Pix[(at.Y+y)*s.Stride+at.X:]
		trow := t.Pix[y*t.Stride:]

		for x := 0; x < tw; x++ {
			d := int(srow[x]) - int(trow[x])
			if d < 0 {
				d = -d
			}
			diff += float64(d)
		}

		if budget >= 0 && diff > budget {
			return 0
		}
	}

	return 1 - diff/(n*255)
}

func toGray(img image.Image) *image.Gray {
	b := img.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(g, g.Bounds(), img, b.Min, draw.Src)
	return g
}

func scale(g *image.Gray, factor int) *image.Gray {
	w := max(g.Bounds().Dx()/factor, 1)
	h := max(g.Bounds().Dy()/factor, 1)

	dst := image.NewGray(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), g, g.Bounds(), draw.Src, nil)

	return dst
}
