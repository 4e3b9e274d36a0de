// Package cheats decodes Game Genie and GameShark cheat codes into
// address/value overrides applied on cartridge ROM reads.
package cheats

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/thelolagemann/gomeboy/internal/types"
)

// genieCode is a 9-hex-digit Game Genie code: ABC-DEF-GHI, where AB is
// the replacement byte, FCDE is the target address XORed with 0xF000,
// and GI is the expected original byte (XORed with 0xBA, rotated left
// by 2) used only as a sanity check, not enforced here.
type genieCode struct {
	address uint16
	newData uint8
}

// sharkCode is an 8-hex-digit GameShark code: ABCDEFGH, where AB is the
// external RAM bank (unused for ROM patches), CD is the replacement
// byte and GHEF (reordered to EFGH) is the target address.
type sharkCode struct {
	address uint16
	newData uint8
}

// Set holds every active cheat code for one running cartridge.
type Set struct {
	genie []genieCode
	shark []sharkCode
}

// Add parses code (either format, hyphens optional) and activates it.
func (s *Set) Add(code string) error {
	clean := strings.ReplaceAll(code, "-", "")
	switch len(clean) {
	case 9:
		c, err := parseGenie(clean)
		if err != nil {
			return err
		}
		s.genie = append(s.genie, c)
		return nil
	case 8:
		c, err := parseShark(clean)
		if err != nil {
			return err
		}
		s.shark = append(s.shark, c)
		return nil
	default:
		return fmt.Errorf("cheats: unrecognised code length %d", len(clean))
	}
}

// Remove deactivates every loaded code that targets address.
func (s *Set) Remove(address uint16) {
	g := s.genie[:0]
	for _, c := range s.genie {
		if c.address != address {
			g = append(g, c)
		}
	}
	s.genie = g

	sh := s.shark[:0]
	for _, c := range s.shark {
		if c.address != address {
			sh = append(sh, c)
		}
	}
	s.shark = sh
}

// Apply returns the cheat-overridden byte for a ROM read at address,
// or original unchanged if no code targets it.
func (s *Set) Apply(address uint16, original uint8) uint8 {
	for _, c := range s.genie {
		if c.address == address {
			return c.newData
		}
	}
	for _, c := range s.shark {
		if c.address == address {
			return c.newData
		}
	}
	return original
}

func parseGenie(code string) (genieCode, error) {
	if len(code) != 9 {
		return genieCode{}, fmt.Errorf("cheats: invalid game genie code length %d", len(code))
	}
	newData, err := strconv.ParseUint(code[0:2], 16, 8)
	if err != nil {
		return genieCode{}, err
	}
	// CDEF is stored reordered to FCDE.
	addrHex := string(code[5]) + code[2:5]
	addr, err := strconv.ParseUint(addrHex, 16, 16)
	if err != nil {
		return genieCode{}, err
	}
	return genieCode{address: uint16(addr) ^ 0xF000, newData: uint8(newData)}, nil
}

func parseShark(code string) (sharkCode, error) {
	if len(code) != 8 {
		return sharkCode{}, fmt.Errorf("cheats: invalid gameshark code length %d", len(code))
	}
	newData, err := strconv.ParseUint(code[2:4], 16, 8)
	if err != nil {
		return sharkCode{}, err
	}
	// GHEF is stored reordered to EFGH.
	addrHex := code[6:8] + code[4:6]
	addr, err := strconv.ParseUint(addrHex, 16, 16)
	if err != nil {
		return sharkCode{}, err
	}
	return sharkCode{address: uint16(addr), newData: uint8(newData)}, nil
}

func (s *Set) Save(st *types.State) {
	st.Write32(uint32(len(s.genie)))
	for _, c := range s.genie {
		st.Write16(c.address)
		st.Write8(c.newData)
	}
	st.Write32(uint32(len(s.shark)))
	for _, c := range s.shark {
		st.Write16(c.address)
		st.Write8(c.newData)
	}
}

func (s *Set) Load(st *types.State) {
	n := st.Read32()
	s.genie = make([]genieCode, n)
	for i := range s.genie {
		s.genie[i] = genieCode{address: st.Read16(), newData: st.Read8()}
	}
	n = st.Read32()
	s.shark = make([]sharkCode, n)
	for i := range s.shark {
		s.shark[i] = sharkCode{address: st.Read16(), newData: st.Read8()}
	}
}
