package identity

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/kepler-fts/facetrackd/internal/models"
)

const fileMagic uint32 = 0x46545849 // "FTXI"
const fileVersion uint32 = 1

// Persist writes the index to a self-describing binary file:
// header {magic, version, dimension D, count N} followed by N records of
// {id length, id bytes, D×float32}.
func (idx *Index) Persist(path string) error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := binary.Write(w, binary.LittleEndian, fileMagic); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, fileVersion); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(idx.dimension)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(idx.identities))); err != nil {
		return err
	}

	for id, ident := range idx.identities {
		if err := binary.Write(w, binary.LittleEndian, uint32(len(id))); err != nil {
			return err
		}
		if _, err := w.WriteString(id); err != nil {
			return err
		}
		for _, v := range ident.Embedding {
			if err := binary.Write(w, binary.LittleEndian, v); err != nil {
				return err
			}
		}
	}

	return w.Flush()
}

// Load reads a file written by Persist into a fresh Index. Readers must
// reject a file whose dimension does not match an expected D when one is
// known by the caller (pass 0 to accept any dimension).
func Load(path string, expectDimension int) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := bufio.NewReader(f)

	var magic, version, dimension, count uint32
	if err := binary.Read(r, binary.LittleEndian, &magic); err != nil {
		return nil, err
	}
	if magic != fileMagic {
		return nil, fmt.Errorf("identity: bad file magic %x", magic)
	}
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.LittleEndian, &dimension); err != nil {
		return nil, err
	}
	if expectDimension != 0 && int(dimension) != expectDimension {
		return nil, fmt.Errorf("identity: dimension mismatch: file has %d, want %d", dimension, expectDimension)
	}
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}

	idx := New(int(dimension))
	for i := uint32(0); i < count; i++ {
		var idLen uint32
		if err := binary.Read(r, binary.LittleEndian, &idLen); err != nil {
			return nil, err
		}
		idBytes := make([]byte, idLen)
		if _, err := io.ReadFull(r, idBytes); err != nil {
			return nil, err
		}
		vec := make([]float32, dimension)
		for j := range vec {
			if err := binary.Read(r, binary.LittleEndian, &vec[j]); err != nil {
				return nil, err
			}
		}
		idx.identities[string(idBytes)] = models.Identity{
			EmployeeID: string(idBytes),
			Embedding:  vec,
		}
	}

	return idx, nil
}
