package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jsphweid/handex/arrange"
	"github.com/jsphweid/handex/config"
	"github.com/jsphweid/handex/constants"
	"github.com/jsphweid/handex/db"
	"github.com/jsphweid/handex/emit"
	"github.com/jsphweid/handex/midi"
	"github.com/jsphweid/handex/model"
	"github.com/jsphweid/handex/staging"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

// The HTTP front-end ships with looser ceilings than the CLI but
// tighter than the library defaults.
const (
	serveDefaultMaxRight = 8
	serveDefaultMaxLeft  = 6
)

var servePort int

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "port to listen on")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the arranger HTTP service",
	Long:  `Runs the arranger HTTP service`,
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: msg})
}

// formOptions reads the configuration surface out of the upload form.
// Every option is independently settable; unset fields keep the serve
// defaults.
func formOptions(r *http.Request) (config.Options, error) {
	opts := config.Default()
	opts.MaxRightHandNotes = serveDefaultMaxRight
	opts.MaxLeftHandNotes = serveDefaultMaxLeft

	if v := r.FormValue("splitPoint"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > 127 {
			return opts, fmt.Errorf("splitPoint must be a pitch between 0 and 127")
		}
		opts.SplitPoint = uint8(n)
	}
	if v := r.FormValue("maxRightHandNotes"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return opts, fmt.Errorf("maxRightHandNotes must be a positive integer")
		}
		opts.MaxRightHandNotes = n
	}
	if v := r.FormValue("maxLeftHandNotes"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return opts, fmt.Errorf("maxLeftHandNotes must be a positive integer")
		}
		opts.MaxLeftHandNotes = n
	}
	for field, dst := range map[string]*bool{
		"dynamicSplitPoint": &opts.DynamicSplitPoint,
		"preserveMelody":    &opts.PreserveMelody,
		"preserveBass":      &opts.PreserveBass,
	} {
		if v := r.FormValue(field); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return opts, fmt.Errorf("%v must be a boolean", field)
			}
			*dst = b
		}
	}
	return opts, nil
}

// HandleArrange accepts a MIDI upload plus options and responds with a
// download id and summary statistics. Exported for the e2e tests.
func HandleArrange(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field: "+err.Error())
		return
	}
	defer file.Close()

	if !isMidiPath(header.Filename) {
		writeError(w, http.StatusBadRequest, "only .mid/.midi uploads are supported")
		return
	}

	opts, err := formOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	inPath, err := staging.NewPath(filepath.Ext(header.Filename))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := saveUpload(inPath, file); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	staging.ScheduleRemoval(inPath)

	src, err := midi.ReadFile(inPath)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tracks := midi.Tracks(src)
	arr := arrange.Run(tracks, opts)
	out := emit.Render(src, arr)

	outPath, err := staging.NewPath(".mid")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := out.WriteFile(outPath); err != nil {
		writeError(w, http.StatusInternalServerError, "could not write arrangement: "+err.Error())
		return
	}
	staging.ScheduleRemoval(outPath)

	resp := model.ArrangeResponse{
		Id:             strings.TrimSuffix(filepath.Base(outPath), ".mid"),
		TrackCount:     len(tracks),
		RightHandNotes: len(arr.Right),
		LeftHandNotes:  len(arr.Left),
		Duration:       arr.TotalDuration(),
	}
	if m, ok := db.GetMidiMetadatas([]string{header.Filename})[header.Filename]; ok {
		resp.Metadata = &m
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func saveUpload(path string, src io.Reader) error {
	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not stage upload: %v", err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("could not stage upload: %v", err)
	}
	return nil
}

// HandleDownload streams a staged arrangement and schedules its
// removal.
func HandleDownload(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "malformed download id")
		return
	}

	path := filepath.Join(constants.GetStagingDir(), id+".mid")
	f, err := os.Open(path)
	if err != nil {
		writeError(w, http.StatusNotFound, "no such arrangement")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "audio/midi")
	w.Header().Set("Content-Disposition", `attachment; filename="arrangement.mid"`)
	io.Copy(w, f)
	staging.ScheduleRemoval(path)
}

func serve() {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/arrange", HandleArrange).Methods("POST")
	router.HandleFunc("/download/{id}", HandleDownload).Methods("GET")

	handler := cors.Default().Handler(router)
	addr := fmt.Sprintf(":%v", servePort)
	fmt.Printf("Listening on %v\n", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
