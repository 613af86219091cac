package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"

	"github.com/TAMUSHPE/MobileApp-sub001/internal/config"
	"github.com/TAMUSHPE/MobileApp-sub001/internal/services"
)

// worker hosts the remote procedures the API server fires off asynchronously,
// plus the scheduled monthly leaderboard reset: push notification dispatch,
// committee member count maintenance and monthly points bucketing.
type worker struct {
	fs         *firestore.Client
	users      *services.UserService
	notify     *services.NotifyService
	committees *services.CommitteeService
	log        *zap.Logger
}

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ctx := context.Background()

	app, err := services.NewFirebaseApp(ctx, cfg.FirebaseProjectID, cfg.CredentialsFile)
	if err != nil {
		logger.Fatal("firebase init failed", zap.Error(err))
	}
	fsClient, err := app.Firestore(ctx)
	if err != nil {
		logger.Fatal("firestore init failed", zap.Error(err))
	}
	defer fsClient.Close()

	userService := services.NewUserService(fsClient)
	notifyService, err := services.NewNotifyService(ctx, app, userService, logger)
	if err != nil {
		logger.Fatal("messaging init failed", zap.Error(err))
	}

	w := &worker{
		fs:         fsClient,
		users:      userService,
		notify:     notifyService,
		committees: services.NewCommitteeService(fsClient, nil),
		log:        logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusOK)
		rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/functions/"+services.ProcSendNotificationResumeConfirm, w.handleResumeConfirm)
	mux.HandleFunc("/functions/"+services.ProcSendNotificationCommitteeRequest, w.handleCommitteeRequest)
	mux.HandleFunc("/functions/"+services.ProcUpdateCommitteeMembersCount, w.handleMembersCount)
	mux.HandleFunc("/functions/"+services.ProcResetMonthlyPoints, w.handleMonthlyReset)

	logger.Info("functions worker listening", zap.String("addr", cfg.ServerAddress))
	if err := http.ListenAndServe(cfg.ServerAddress, mux); err != nil {
		logger.Fatal("worker failed", zap.Error(err))
	}
}

func decode(r *http.Request, v interface{}) error {
	if r.Method != http.MethodPost {
		return fmt.Errorf("method %s not allowed", r.Method)
	}
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func (w *worker) handleResumeConfirm(rw http.ResponseWriter, r *http.Request) {
	var req struct {
		UID      string `json:"uid"`
		Approved bool   `json:"approved"`
	}
	if err := decode(r, &req); err != nil || req.UID == "" {
		http.Error(rw, "bad request", http.StatusBadRequest)
		return
	}

	title, body := "Resume Verified", "Your resume is now in the public resume bank."
	if !req.Approved {
		title, body = "Resume Not Approved", "Your resume submission was not approved. You may revise and resubmit."
	}

	sent, err := w.notify.SendToUser(r.Context(), req.UID, title, body)
	if err != nil {
		w.log.Warn("resume notification failed", zap.String("uid", req.UID), zap.Error(err))
	}
	writeResult(rw, map[string]int{"sent": sent})
}

func (w *worker) handleCommitteeRequest(rw http.ResponseWriter, r *http.Request) {
	var req struct {
		Committee string `json:"committee"`
		UID       string `json:"uid"`
	}
	if err := decode(r, &req); err != nil || req.Committee == "" {
		http.Error(rw, "bad request", http.StatusBadRequest)
		return
	}

	officers, err := w.officerUIDs(r.Context())
	if err != nil {
		w.log.Error("officer lookup failed", zap.Error(err))
		http.Error(rw, "internal error", http.StatusInternalServerError)
		return
	}

	title := "New Committee Request"
	body := fmt.Sprintf("A member requested to join %s.", req.Committee)
	sent := w.notify.SendToUsers(r.Context(), officers, title, body)
	writeResult(rw, map[string]int{"sent": sent})
}

// handleMembersCount recounts a committee's members from the source of truth
// rather than trusting the caller's delta; concurrent joins and leaves settle
// to the right number on the next call.
func (w *worker) handleMembersCount(rw http.ResponseWriter, r *http.Request) {
	var req struct {
		Committee string `json:"committee"`
		Delta     int    `json:"delta"`
	}
	if err := decode(r, &req); err != nil || req.Committee == "" {
		http.Error(rw, "bad request", http.StatusBadRequest)
		return
	}

	members, err := w.committees.GetCommitteeMembers(r.Context(), req.Committee)
	if err != nil {
		w.log.Error("member count failed", zap.String("committee", req.Committee), zap.Error(err))
		http.Error(rw, "internal error", http.StatusInternalServerError)
		return
	}

	_, err = w.fs.Collection("committees").Doc(req.Committee).Set(r.Context(), map[string]interface{}{
		"memberCount": len(members),
	}, firestore.MergeAll)
	if err != nil {
		w.log.Error("member count write failed", zap.String("committee", req.Committee), zap.Error(err))
		http.Error(rw, "internal error", http.StatusInternalServerError)
		return
	}
	writeResult(rw, map[string]int{"memberCount": len(members)})
}

// handleMonthlyReset runs the month-boundary points reset. The scheduler fires
// it on the first of the month; re-fires within the same month are no-ops.
func (w *worker) handleMonthlyReset(rw http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(rw, "bad request", http.StatusBadRequest)
		return
	}

	reset, err := w.users.ResetMonthlyPoints(r.Context(), time.Now())
	if err != nil {
		w.log.Error("monthly points reset failed", zap.Error(err))
		http.Error(rw, "internal error", http.StatusInternalServerError)
		return
	}
	writeResult(rw, map[string]int{"reset": reset})
}

func (w *worker) officerUIDs(ctx context.Context) ([]string, error) {
	var uids []string
	iter := w.fs.Collection("users").Where("roles.officer", "==", true).Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err != nil {
			if errors.Is(err, iterator.Done) {
				return uids, nil
			}
			return uids, err
		}
		uids = append(uids, doc.Ref.ID)
	}
}

func writeResult(rw http.ResponseWriter, v interface{}) {
	rw.Header().Set("Content-Type", "application/json")
	json.NewEncoder(rw).Encode(v)
}
