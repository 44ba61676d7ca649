package pptx

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

type fontKey struct {
	name   string
	size   float64
	bold   bool
	italic bool
}

// FontCache loads TrueType/OpenType fonts from system and user directories
// and caches the faces built from them. It is safe for concurrent use.
type FontCache struct {
	mu      sync.RWMutex
	dirs    []string
	fonts   map[string]*opentype.Font // lower-case name -> font
	faces   map[fontKey]font.Face
	scanned bool
}

// NewFontCache creates a FontCache that searches the given directories
// plus the OS default font directories.
func NewFontCache(extraDirs ...string) *FontCache {
	return &FontCache{
		dirs:  append(systemFontDirs(), extraDirs...),
		fonts: make(map[string]*opentype.Font),
		faces: make(map[fontKey]font.Face),
	}
}

// GetFace returns a face for the named font at sizePx pixels (72 DPI), or
// nil when no installed font matches.
func (fc *FontCache) GetFace(name string, sizePx float64, bold, italic bool) font.Face {
	fc.ensureScanned()

	key := fontKey{name: strings.ToLower(name), size: sizePx, bold: bold, italic: italic}
	fc.mu.RLock()
	face, ok := fc.faces[key]
	fc.mu.RUnlock()
	if ok {
		return face
	}

	f := fc.findFont(key.name, bold, italic)
	if f == nil {
		return nil
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    sizePx,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil
	}

	fc.mu.Lock()
	fc.faces[key] = face
	fc.mu.Unlock()
	return face
}

// TextWidth measures text set in the named font at sizePt points and returns
// the advance in points. ok is false when the font is not available.
func (fc *FontCache) TextWidth(name string, sizePt float64, text string) (width float64, ok bool) {
	face := fc.GetFace(name, sizePt, false, false)
	if face == nil {
		return 0, false
	}
	adv := font.MeasureString(face, text)
	return float64(adv) / 64, true
}

// Has reports whether a font with the given name is available.
func (fc *FontCache) Has(name string) bool {
	fc.ensureScanned()
	return fc.findFont(strings.ToLower(name), false, false) != nil
}

var (
	boldItalicSuffixes = []string{" bold italic", "bi", " bolditalic", "z"}
	boldSuffixes       = []string{" bold", "bd", "b"}
	italicSuffixes     = []string{" italic", "i", " it"}
)

// findFont looks up a parsed font by lower-case name, trying style variants
// ("arialbd", "meiryo bold") before the plain name and then the Japanese
// alias table.
func (fc *FontCache) findFont(lower string, bold, italic bool) *opentype.Font {
	fc.mu.RLock()
	defer fc.mu.RUnlock()

	if f := fc.lookupStyled(lower, bold, italic); f != nil {
		return f
	}
	if alias, ok := japaneseFontAliases[lower]; ok {
		return fc.lookupStyled(alias, bold, italic)
	}
	return nil
}

// lookupStyled must be called with fc.mu held.
func (fc *FontCache) lookupStyled(lower string, bold, italic bool) *opentype.Font {
	var suffixes []string
	switch {
	case bold && italic:
		suffixes = append(suffixes, boldItalicSuffixes...)
		suffixes = append(suffixes, boldSuffixes...)
	case bold:
		suffixes = boldSuffixes
	case italic:
		suffixes = italicSuffixes
	}
	for _, s := range suffixes {
		if f, ok := fc.fonts[lower+s]; ok {
			return f
		}
	}
	return fc.fonts[lower]
}

// LoadFont loads a TrueType/OpenType font file and registers it under name.
func (fc *FontCache) LoadFont(name, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Size() > maxFontFileSize {
		return fmt.Errorf("font file too large: %d bytes (max %d)", info.Size(), maxFontFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return fc.LoadFontData(name, data)
}

// LoadFontData registers a TrueType/OpenType font from raw bytes.
func (fc *FontCache) LoadFontData(name string, data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %s: %w", name, err)
	}
	fc.mu.Lock()
	fc.fonts[strings.ToLower(name)] = f
	fc.registerByFamilyName(f)
	fc.mu.Unlock()
	return nil
}

func (fc *FontCache) ensureScanned() {
	fc.mu.RLock()
	scanned := fc.scanned
	fc.mu.RUnlock()
	if scanned {
		return
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()
	if fc.scanned {
		return
	}
	fc.scanned = true
	for _, dir := range fc.dirs {
		fc.scanDir(dir, 0)
	}
}

const (
	maxFontScanDepth = 3
	maxFontFileSize  = 32 << 20 // CJK collections are large
)

func (fc *FontCache) scanDir(dir string, depth int) {
	if depth > maxFontScanDepth {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		p := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			fc.scanDir(p, depth+1)
			continue
		}
		lower := strings.ToLower(entry.Name())
		ext := filepath.Ext(lower)
		switch ext {
		case ".ttf", ".otf", ".ttc", ".otc":
		default:
			continue
		}
		info, err := entry.Info()
		if err != nil || info.Size() > maxFontFileSize {
			continue
		}
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		base := strings.TrimSuffix(lower, ext)
		if ext == ".ttc" || ext == ".otc" {
			fc.loadCollection(data, base)
		} else {
			fc.loadSingleFont(data, base)
		}
	}
}

func (fc *FontCache) loadSingleFont(data []byte, base string) {
	f, err := opentype.Parse(data)
	if err != nil {
		return
	}
	fc.fonts[base] = f
	fc.registerByFamilyName(f)
}

// loadCollection registers every font of a TTC/OTC by family name and the
// first one by file name as well.
func (fc *FontCache) loadCollection(data []byte, base string) {
	coll, err := opentype.ParseCollection(data)
	if err != nil {
		return
	}
	for i := range coll.NumFonts() {
		f, err := coll.Font(i)
		if err != nil {
			continue
		}
		if i == 0 {
			fc.fonts[base] = f
		}
		fc.registerByFamilyName(f)
	}
}

// japaneseFontAliases maps Japanese typeface names as they appear in decks to
// the family names fonts register under.
var japaneseFontAliases = map[string]string{
	"メイリオ":          "meiryo",
	"メイリオ ui":       "meiryo ui",
	"游ゴシック":         "yu gothic",
	"游ゴシック medium":  "yu gothic medium",
	"游明朝":           "yu mincho",
	"ｍｓ ゴシック":       "ms gothic",
	"ｍｓ pゴシック":      "ms pgothic",
	"ｍｓ 明朝":         "ms mincho",
	"ms ゴシック":       "ms gothic",
	"ms pゴシック":      "ms pgothic",
	"ms 明朝":         "ms mincho",
	"ヒラギノ角ゴシック":     "hiragino sans",
	"ヒラギノ角ゴ pron":   "hiragino kaku gothic pron",
	"ヒラギノ明朝 pron":   "hiragino mincho pron",
	"ipaゴシック":       "ipagothic",
	"ipa明朝":         "ipamincho",
	"源ノ角ゴシック":       "source han sans",
	"noto sans jp":  "noto sans cjk jp",
	"小塚ゴシック pr6n":   "kozuka gothic pr6n",
	"biz udゴシック":    "biz udgothic",
	"biz udpゴシック":   "biz udpgothic",
}

// registerByFamilyName registers f under its family and full names.
func (fc *FontCache) registerByFamilyName(f *opentype.Font) {
	if family, err := f.Name(nil, sfnt.NameIDFamily); err == nil && family != "" {
		fc.fonts[strings.ToLower(family)] = f
	}
	if full, err := f.Name(nil, sfnt.NameIDFull); err == nil && full != "" {
		fc.fonts[strings.ToLower(full)] = f
	}
}

// systemFontDirs returns OS-specific font directories.
func systemFontDirs() []string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "windows":
		windir := os.Getenv("WINDIR")
		if windir == "" {
			windir = `C:\Windows`
		}
		dirs := []string{filepath.Join(windir, "Fonts")}
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			dirs = append(dirs, filepath.Join(local, "Microsoft", "Windows", "Fonts"))
		}
		return dirs
	case "darwin":
		dirs := []string{"/System/Library/Fonts", "/Library/Fonts"}
		if home != "" {
			dirs = append(dirs, filepath.Join(home, "Library", "Fonts"))
		}
		return dirs
	default:
		dirs := []string{"/usr/share/fonts", "/usr/local/share/fonts"}
		if home != "" {
			dirs = append(dirs, filepath.Join(home, ".local", "share", "fonts"), filepath.Join(home, ".fonts"))
		}
		return dirs
	}
}
