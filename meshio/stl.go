package meshio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/chewxy/math32"
	"github.com/hschendel/stl"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	sizeOfSTLHeader   = 84
	sizeOfSTLTriangle = 50
)

// ErrNormalMismatch is returned alongside valid triangles when stored
// normals disagree with the normals computed from vertices.
// Ignore this error if the model is OK.
var ErrNormalMismatch = errors.New("triangle normal not approximately equal to calculated normal from vertices")

// WriteSTL writes model triangles to a writer in binary STL file format.
func WriteSTL(w io.Writer, model []Triangle) error {
	if len(model) == 0 {
		return errors.New("empty triangle slice")
	}
	header := stlHeader{
		Count: uint32(len(model)),
	}
	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return err
	}
	var (
		b [sizeOfSTLTriangle]byte
		d stlTriangle
	)
	for _, triangle := range model {
		d.Normal = to3F32(triangle.Normal())
		d.Vertex1 = to3F32(triangle[0])
		d.Vertex2 = to3F32(triangle[1])
		d.Vertex3 = to3F32(triangle[2])
		d.put(b[:])
		if _, err := w.Write(b[:]); err != nil {
			return err
		}
	}
	return nil
}

// WriteASCIISTL writes model triangles to a writer in ASCII STL format.
func WriteASCIISTL(w io.Writer, name string, model []Triangle) error {
	if len(model) == 0 {
		return errors.New("empty triangle slice")
	}
	solid := &stl.Solid{
		Name:      name,
		IsAscii:   true,
		Triangles: make([]stl.Triangle, len(model)),
	}
	for i, triangle := range model {
		solid.Triangles[i] = stl.Triangle{
			Normal: to3F32(triangle.Normal()),
			Vertices: [3]stl.Vec3{
				to3F32(triangle[0]),
				to3F32(triangle[1]),
				to3F32(triangle[2]),
			},
		}
	}
	return solid.WriteAll(w)
}

// ReadSTL reads binary or ASCII STL data. The format is detected from
// the triangle count in the binary header. If the returned error is
// ErrNormalMismatch the triangles are still valid.
func ReadSTL(data []byte) ([]Triangle, error) {
	if isBinarySTL(data) {
		return readBinarySTL(bytes.NewReader(data))
	}
	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("solid")) {
		return nil, errors.New("unrecognized STL data")
	}
	return readASCIISTL(bytes.NewReader(data))
}

func isBinarySTL(data []byte) bool {
	if len(data) < sizeOfSTLHeader {
		return false
	}
	count := binary.LittleEndian.Uint32(data[80:84])
	return int64(len(data)) == sizeOfSTLHeader+sizeOfSTLTriangle*int64(count)
}

func readASCIISTL(r io.ReadSeeker) (output []Triangle, readErr error) {
	solid, err := stl.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading ASCII STL: %w", err)
	}
	output = make([]Triangle, 0, len(solid.Triangles))
	for i, t := range solid.Triangles {
		d := stlTriangle{Normal: t.Normal, Vertex1: t.Vertices[0], Vertex2: t.Vertices[1], Vertex3: t.Vertices[2]}
		if err := d.validate(); err != nil {
			switch {
			case errors.Is(err, errDegenerate):
				continue
			case errors.Is(err, ErrNormalMismatch):
				readErr = err
			default:
				return nil, fmt.Errorf("STL triangle %d of solid %q: %w", i, solid.Name, err)
			}
		}
		output = append(output, d.toTriangle())
	}
	if len(output) == 0 {
		return nil, errors.New("STL solid has no valid triangles")
	}
	return output, readErr
}

// stlHeader defines the STL file header.
type stlHeader struct {
	_     [80]uint8 // Header
	Count uint32    // Number of triangles
}

func readBinarySTL(r io.Reader) (output []Triangle, readErr error) {
	var header stlHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, errors.New("encountered EOF while reading STL header")
		}
		return nil, errors.New("STL header read failed: " + err.Error())
	}
	if header.Count == 0 {
		return nil, errors.New("STL header indicates 0 triangles present")
	}
	var (
		buf            [sizeOfSTLTriangle]byte
		d              stlTriangle
		i              int
		normMismatches int
	)
	defer func() {
		if readErr != nil && !errors.Is(readErr, ErrNormalMismatch) {
			readErr = fmt.Errorf("%d/%d STL triangles read: %w", i+1, header.Count, readErr)
		}
	}()
	output = make([]Triangle, 0, header.Count)
	for i = 0; i < int(header.Count); i++ {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, err
		}
		d.get(buf[:])
		if err := d.validate(); err != nil {
			switch {
			case errors.Is(err, errDegenerate):
				// Zero area triangles carry no geometry.
				continue
			case errors.Is(err, ErrNormalMismatch):
				normMismatches++
				if normMismatches > 10_000 {
					// This may be valid output, so we return the triangles.
					return output, fmt.Errorf("got too many normal vector mismatches (%d)", normMismatches)
				}
				readErr = err
			default:
				return nil, err
			}
		}
		output = append(output, d.toTriangle())
	}
	if len(output) == 0 {
		return nil, errors.New("STL has only degenerate triangles")
	}
	// For high resolution models the mismatch may be incorrectly reported.
	return output, readErr
}

// stlTriangle defines the triangle data within an STL file.
type stlTriangle struct {
	Normal  [3]float32
	Vertex1 [3]float32
	Vertex2 [3]float32
	Vertex3 [3]float32
	_       uint16 // Attribute byte count
}

func (t stlTriangle) put(b []byte) {
	if len(b) < sizeOfSTLTriangle {
		panic("need length 50 to marshal stlTriangle")
	}
	put3F32(b, t.Normal)
	put3F32(b[12:], t.Vertex1)
	put3F32(b[24:], t.Vertex2)
	put3F32(b[36:], t.Vertex3)
	binary.LittleEndian.PutUint16(b[48:], 0)
}

func (t *stlTriangle) get(b []byte) {
	if len(b) < sizeOfSTLTriangle {
		panic("need length 50 to unmarshal stlTriangle")
	}
	get3F32(b, &t.Normal)
	get3F32(b[12:], &t.Vertex1)
	get3F32(b[24:], &t.Vertex2)
	get3F32(b[36:], &t.Vertex3)
	// no attributes supported yet.
}

func put3F32(b []byte, f [3]float32) {
	_ = b[11] // early bounds check
	binary.LittleEndian.PutUint32(b, math.Float32bits(f[0]))
	binary.LittleEndian.PutUint32(b[4:], math.Float32bits(f[1]))
	binary.LittleEndian.PutUint32(b[8:], math.Float32bits(f[2]))
}

func get3F32(b []byte, f *[3]float32) {
	_ = b[11] // early bounds check
	f[0] = math.Float32frombits(binary.LittleEndian.Uint32(b))
	f[1] = math.Float32frombits(binary.LittleEndian.Uint32(b[4:]))
	f[2] = math.Float32frombits(binary.LittleEndian.Uint32(b[8:]))
}

func bad3F32(f [3]float32) bool {
	return math32.IsNaN(f[0]) || math32.IsInf(f[0], 0) ||
		math32.IsNaN(f[1]) || math32.IsInf(f[1], 0) ||
		math32.IsNaN(f[2]) || math32.IsInf(f[2], 0)
}

var errDegenerate = errors.New("triangle is degenerate")

func (t stlTriangle) validate() error {
	const epsilon = 1e-12
	const normTol = 5e-2
	if bad3F32(t.Normal) {
		return errors.New("inf/NaN STL triangle normal")
	}
	if bad3F32(t.Vertex1) || bad3F32(t.Vertex2) || bad3F32(t.Vertex3) {
		return errors.New("inf/NaN STL triangle vertex")
	}
	if t.toTriangle().Degenerate(epsilon) {
		return errDegenerate
	}
	if t.Normal == ([3]float32{}) {
		// Writers may leave normals zeroed.
		return nil
	}
	calc := t.toTriangle().Normal()
	if !equalWithin3F32(to3F32(calc), t.Normal, normTol) && !equalWithin3F32(to3F32(r3.Scale(-1, calc)), t.Normal, normTol) {
		return ErrNormalMismatch
	}
	return nil
}

func equalWithin3F32(a, b [3]float32, tol float32) bool {
	return math32.Abs(a[0]-b[0]) <= tol &&
		math32.Abs(a[1]-b[1]) <= tol &&
		math32.Abs(a[2]-b[2]) <= tol
}

func r3From3F32(f [3]float32) r3.Vec {
	return r3.Vec{X: float64(f[0]), Y: float64(f[1]), Z: float64(f[2])}
}

func to3F32(v r3.Vec) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}

func (t stlTriangle) toTriangle() Triangle {
	return Triangle{
		r3From3F32(t.Vertex1),
		r3From3F32(t.Vertex2),
		r3From3F32(t.Vertex3),
	}
}
