// Package site renders the teaser pages and serves their embedded assets.
package site

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"sort"
	"strings"
	"time"

	"launch-gate/internal/auth"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static gallery
var assetFS embed.FS

// GalleryPath serves the carousel images. It is not excluded from the guard.
const GalleryPath = "/gallery"

// Image is one gallery slide.
type Image struct {
	Src string
	Alt string
}

// Feature is one teaser card.
type Feature struct {
	Title string
	Blurb string
}

var features = []Feature{
	{Title: "Autonomous Refill", Blurb: "Never interrupt your workflow"},
	{Title: "Self-Cleaning", Blurb: "Pristine prints, every time"},
	{Title: "Intelligent Curing", Blurb: "Perfection, automated"},
	{Title: "24/7 Operation", Blurb: "Production that never sleeps"},
}

// Pages serves the gated HTML pages. Gallery images are listed once at construction.
type Pages struct {
	launchAt time.Time
	gallery  []Image
}

func NewPages(launchAt time.Time) (*Pages, error) {
	gallery, err := listGallery(assetFS)
	if err != nil {
		return nil, err
	}
	return &Pages{launchAt: launchAt.UTC(), gallery: gallery}, nil
}

// Templates parses the embedded page templates for gin's HTML renderer.
func Templates() (*template.Template, error) {
	return template.New("").ParseFS(templateFS, "templates/*.html")
}

// Register installs templates, asset routes and page handlers on r.
func (p *Pages) Register(r *gin.Engine) error {
	tmpl, err := Templates()
	if err != nil {
		return err
	}
	r.SetHTMLTemplate(tmpl)

	static, err := fs.Sub(assetFS, "static")
	if err != nil {
		return err
	}
	gallery, err := fs.Sub(assetFS, "gallery")
	if err != nil {
		return err
	}
	// /static is ungated; /gallery sits behind the guard like every page.
	p.serveFiles(r, "/static", static)
	p.serveFiles(r, GalleryPath, gallery)
	r.GET("/favicon.ico", favicon)

	r.GET(auth.HomePath, p.Home)
	r.GET(auth.LoginPath, p.Login)
	r.NoRoute(p.NotFound)
	return nil
}

// Home renders the teaser. The guard has already admitted the visitor.
func (p *Pages) Home(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"LaunchAt":   p.launchAt.Format(time.RFC3339),
		"Features":   features,
		"Gallery":    p.gallery,
		"Year":       p.launchAt.Year(),
		"Authorized": auth.IsAuthorized(c.Request.Context()),
	})
}

// Login renders the password form; from is passed back to the login endpoint.
func (p *Pages) Login(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"From": auth.SafeReturnPath(c.Query(auth.ReturnParam)),
	})
}

func (p *Pages) NotFound(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api") {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.HTML(http.StatusNotFound, "notfound.html", gin.H{"Path": c.Request.URL.Path})
}

// serveFiles exposes the regular files of fsys under prefix. Directories,
// including the prefix itself, answer 404 instead of a listing.
func (p *Pages) serveFiles(r *gin.Engine, prefix string, fsys fs.FS) {
	files := http.FS(fsys)
	h := func(c *gin.Context) {
		name := strings.TrimPrefix(c.Param("filepath"), "/")
		if name == "" || !fs.ValidPath(name) {
			p.NotFound(c)
			return
		}
		info, err := fs.Stat(fsys, name)
		if err != nil || info.IsDir() {
			p.NotFound(c)
			return
		}
		c.FileFromFS(name, files)
	}
	r.GET(prefix+"/*filepath", h)
	r.HEAD(prefix+"/*filepath", h)
}

func favicon(c *gin.Context) {
	b, err := assetFS.ReadFile("static/favicon.svg")
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "image/svg+xml", b)
}

func listGallery(fsys fs.FS) ([]Image, error) {
	entries, err := fs.ReadDir(fsys, "gallery")
	if err != nil {
		return nil, err
	}
	var out []Image
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		out = append(out, Image{
			Src: path.Join(GalleryPath, name),
			Alt: altText(name),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Src < out[j].Src })
	return out, nil
}

// altText turns "resin-chamber.svg" into "resin chamber".
func altText(name string) string {
	name = strings.TrimSuffix(name, path.Ext(name))
	return strings.NewReplacer("-", " ", "_", " ").Replace(name)
}
