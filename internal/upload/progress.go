package upload

import (
	"errors"
	"io"
)

// progressReader reports how many bytes the store has consumed so far.
type progressReader struct {
	r      io.Reader
	read   int64
	onRead func(read int64)
}

func newProgressReader(r io.Reader, onRead func(int64)) io.Reader {
	pr := &progressReader{r: r, onRead: onRead}
	if _, ok := r.(io.ReadSeeker); ok {
		return &seekingProgressReader{pr}
	}
	return pr
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.read += int64(n)
		p.onRead(p.read)
	}
	return n, err
}

// seekingProgressReader keeps io.Seeker available; the S3 client rewinds
// bodies to compute payload hashes.
type seekingProgressReader struct {
	*progressReader
}

func (s *seekingProgressReader) Seek(offset int64, whence int) (int64, error) {
	seeker, ok := s.r.(io.Seeker)
	if !ok {
		return 0, errors.New("progress reader: not seekable")
	}
	pos, err := seeker.Seek(offset, whence)
	if err != nil {
		return pos, err
	}
	s.read = pos
	return pos, nil
}

// percent maps read/size to 0..99; 100 is reserved for a confirmed upload.
func percent(read, size int64) int {
	if size <= 0 {
		return 0
	}
	p := int(read * 100 / size)
	if p > 99 {
		p = 99
	}
	if p < 0 {
		p = 0
	}
	return p
}
