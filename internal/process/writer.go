package process

import "bytes"

// chunkEmitter buffers raw pipe reads and forwards chunks that always end on
// a line boundary, so downstream marker regexes never see a split line.
// Multi-line blocks flushed together stay together in one chunk.
type chunkEmitter struct {
	emit func([]byte)
	buf  bytes.Buffer
}

func newChunkEmitter(emit func([]byte)) *chunkEmitter {
	return &chunkEmitter{emit: emit}
}

func (e *chunkEmitter) Write(p []byte) (int, error) {
	e.buf.Write(p)
	data := e.buf.Bytes()
	idx := bytes.LastIndexByte(data, '\n')
	if idx < 0 {
		return len(p), nil
	}
	chunk := make([]byte, idx+1)
	copy(chunk, data[:idx+1])
	e.buf.Next(idx + 1)
	e.emit(chunk)
	return len(p), nil
}

// flush forwards any trailing partial line once the pipe is exhausted.
func (e *chunkEmitter) flush() {
	if e.buf.Len() == 0 {
		return
	}
	chunk := make([]byte, e.buf.Len())
	copy(chunk, e.buf.Bytes())
	e.buf.Reset()
	e.emit(chunk)
}
