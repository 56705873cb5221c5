package main

import (
	"context"
	"crypto/tls"
	"embed"
	"errors"
	"flag"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"golang.org/x/crypto/acme/autocert"

	"travel-map/pkg/api"
	"travel-map/pkg/geodata"
	"travel-map/pkg/logger"
	"travel-map/pkg/mapshell"
	"travel-map/pkg/mediareel"
	"travel-map/pkg/overlay"
	"travel-map/pkg/placeindex"
)

//go:embed public_html/*
var content embed.FS

var (
	port         = flag.Int("port", 8765, "Port for running the server")
	domain       = flag.String("domain", "", "Use ports 80 and 443 with automatic HTTPS certs via Let's Encrypt")
	dataDir      = flag.String("data", "resources", "Directory holding data/, geojson/ and static/ resources")
	title        = flag.String("title", "Travel Map", "Page title")
	defaultLayer = flag.String("default-layer", "Satellite", `Default base layer: "Satellite", "Street" or "Terrain"`)
	shareBase    = flag.String("share-base", "", "Public URL for share links and QR codes (defaults to http://localhost:<port>/)")
	version      = flag.Bool("version", false, "Show the application version")
)

var CompileVersion = "dev"

func main() {
	flag.Parse()
	if *version {
		fmt.Println("travel-map version:", CompileVersion)
		return
	}

	fsys, err := geodata.DirFS(*dataDir)
	if err != nil {
		log.Fatalf("data directory: %v", err)
	}

	// The three bootstrap datasets load together; one failure means no map.
	logger.Begin("bootstrap")
	logger.Append("bootstrap", fmt.Sprintf("[bootstrap] loading datasets from %s", *dataDir))
	ds, err := geodata.LoadAll(context.Background(), fsys)
	if err != nil {
		logger.FlushError("bootstrap", err)
		log.Fatalf("bootstrap load: %v", err)
	}
	logger.Success("bootstrap", fmt.Sprintf("%d places, %d activities, %d locations, %d routes",
		len(ds.Places), len(ds.Activities), len(ds.Locations), len(ds.Routes)))

	// Index and overlays are built before the server accepts a request, so
	// popups opened right after load always resolve.
	idx := placeindex.New()
	waypoints := overlay.BuildWaypoints(ds.Places, idx)
	activities := overlay.BuildActivities(ds.Activities, idx)
	locations := overlay.BuildLocations(ds.Locations, idx)

	// Route geometry files are independent of bootstrap: they fill their
	// sublayers in whatever order they load, and a failed file only costs
	// that one route.
	routes := overlay.NewRoutes()
	go overlay.LoadRoutes(context.Background(), fsys, ds.Routes, routes)

	shell := mapshell.New(buildConfig(waypoints))

	base := *shareBase
	if base == "" {
		base = fmt.Sprintf("http://localhost:%d/", *port)
	}
	handler := &api.Handler{
		Shell:      shell,
		Index:      idx,
		Waypoints:  waypoints,
		Activities: activities,
		Locations:  locations,
		Routes:     routes,
		Reels:      mediareel.NewHub(),
		ShareBase:  base,
		Logf:       log.Printf,
	}

	mux := http.NewServeMux()
	handler.Register(mux)

	staticFS, err := fs.Sub(content, "public_html")
	if err != nil {
		log.Fatalf("embedded assets: %v", err)
	}
	mux.Handle("/assets/", http.StripPrefix("/assets/", http.FileServer(http.FS(staticFS))))
	mux.Handle("/static/", http.StripPrefix("/static/",
		http.FileServer(http.Dir(filepath.Join(*dataDir, "static")))))
	mux.HandleFunc("/", pageHandler)

	root := withServerHeader(mux)
	if *domain != "" {
		serveWithDomain(*domain, root)
		return
	}
	addr := fmt.Sprintf(":%d", *port)
	log.Printf("HTTP server ➜ %s", addr)
	if err := http.ListenAndServe(addr, root); err != nil {
		log.Fatalf("server: %v", err)
	}
}

// buildConfig assembles the map model the page renders. Global bounds come
// from the canonical waypoint copies, so the reset control never frames a
// phantom world.
func buildConfig(waypoints overlay.MarkerSet) mapshell.Config {
	legend := []mapshell.LegendRow{
		{Label: "Visited place", Color: overlay.ColorDefaultMarker},
		{Label: "School", Color: overlay.ColorAcademic},
		{Label: "Home", Color: overlay.ColorHomeRing},
	}
	for _, mode := range overlay.TransportModes {
		style := overlay.StyleFor(mode)
		legend = append(legend, mapshell.LegendRow{
			Label:     mode,
			Color:     style.Color,
			DashArray: style.DashArray,
		})
	}

	return mapshell.Config{
		Title: *title,
		Attribution: fmt.Sprintf("&copy; %d %s. Images may not be used without explicit permission.",
			time.Now().Year(), *title),
		BaseLayers: []mapshell.BaseLayer{
			{
				Name:        "Satellite",
				URL:         "https://server.arcgisonline.com/ArcGIS/rest/services/World_Imagery/MapServer/tile/{z}/{y}/{x}",
				Attribution: "Tiles &copy; Esri",
				MaxZoom:     19,
			},
			{
				Name:        "Street",
				URL:         "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
				Attribution: "&copy; OpenStreetMap contributors",
				MaxZoom:     19,
			},
			{
				Name:        "Terrain",
				URL:         "https://{s}.tile.opentopomap.org/{z}/{x}/{y}.png",
				Attribution: "Map data &copy; OpenStreetMap contributors, SRTM | OpenTopoMap",
				MaxZoom:     17,
			},
		},
		DefaultLayer:    *defaultLayer,
		Bounds:          waypoints.Bounds,
		LocationMinZoom: overlay.LocationMinZoom,
		Legend:          legend,
		AboutHTML: "This map shows the places I have lived in and traveled to, " +
			"the activities along the way, and the routes between them. " +
			`<a href="#" id="restart-tour">Restart the guided tour</a>.`,
	}
}

var pageTmpl = template.Must(template.ParseFS(content, "public_html/map.html"))

func pageHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	data := struct {
		Title   string
		Version string
	}{Title: *title, Version: CompileVersion}
	if err := pageTmpl.Execute(w, data); err != nil {
		log.Printf("page template: %v", err)
	}
}

// withServerHeader stamps every response and answers HEAD / immediately so
// health checks see the service is alive without a page render.
func withServerHeader(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", "travel-map/"+CompileVersion)
		if r.Method == http.MethodHead && r.URL.Path == "/" {
			w.WriteHeader(http.StatusOK)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// serveWithDomain runs :80 for the ACME challenge plus a permanent redirect,
// and :443 with automatic Let's Encrypt certificates. When autocert cannot
// issue for a host or SNI, a previously obtained fallback certificate is
// served instead of failing the handshake.
func serveWithDomain(domain string, handler http.Handler) {
	certMgr := &autocert.Manager{
		Prompt: autocert.AcceptTOS,
		Cache:  autocert.DirCache("certs"),
		HostPolicy: func(ctx context.Context, host string) error {
			if host == domain || host == "www."+domain {
				return nil
			}
			if net.ParseIP(host) != nil {
				return nil
			}
			return errors.New("acme/autocert: host not configured")
		},
	}

	go func() {
		mux80 := http.NewServeMux()
		mux80.Handle("/.well-known/acme-challenge/", certMgr.HTTPHandler(nil))
		mux80.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			target := "https://" + domain + r.URL.RequestURI()
			http.Redirect(w, r, target, http.StatusMovedPermanently)
		})
		log.Printf("HTTP server (ACME+redirect) ➜ :80")
		if err := (&http.Server{
			Addr:              ":80",
			Handler:           mux80,
			ReadHeaderTimeout: 10 * time.Second,
		}).ListenAndServe(); err != nil {
			log.Printf("HTTP server error: %v", err)
		}
	}()

	go func() {
		t := time.NewTicker(24 * time.Hour)
		defer t.Stop()
		for range t.C {
			if _, err := certMgr.GetCertificate(&tls.ClientHelloInfo{ServerName: domain}); err != nil {
				log.Printf("autocert renewal check: %v", err)
			}
		}
	}()

	tlsCfg := certMgr.TLSConfig()
	tlsCfg.MinVersion = tls.VersionTLS12

	var defaultCert *tls.Certificate
	go func() {
		for defaultCert == nil {
			if c, err := certMgr.GetCertificate(&tls.ClientHelloInfo{ServerName: domain}); err == nil {
				defaultCert = c
			}
			time.Sleep(time.Minute)
		}
	}()
	tlsCfg.GetCertificate = func(chi *tls.ClientHelloInfo) (*tls.Certificate, error) {
		c, err := certMgr.GetCertificate(chi)
		if err == nil {
			return c, nil
		}
		if defaultCert != nil {
			return defaultCert, nil
		}
		return nil, err
	}

	log.Printf("HTTPS server for %s ➜ :443", domain)
	if err := (&http.Server{
		Addr:              ":443",
		Handler:           handler,
		TLSConfig:         tlsCfg,
		ReadHeaderTimeout: 10 * time.Second,
	}).ListenAndServeTLS("", ""); err != nil {
		log.Printf("HTTPS server error: %v", err)
	}
}
