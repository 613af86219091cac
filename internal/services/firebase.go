// Package services wraps every hosted-backend operation the mobile app issues:
// Firestore reads/writes, storage uploads and push dispatch. Each service adds
// light shaping (sorting, cursors, default merges) over the vendor SDKs and no
// independent algorithm beyond that.
package services

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Firestore collection and document names, kept identical to what the mobile
// clients already read.
const (
	colUsers                = "users"
	colPrivate              = "private"
	docPrivateInfo          = "privateInfo"
	colUserEventLogs        = "event-logs"
	colCommittees           = "committees"
	colCommitteeRequests    = "committeeVerification"
	subcolRequests          = "requests"
	colEvents               = "events"
	subcolEventLogs         = "logs"
	colResumeVerification   = "resumeVerification"
	colLinks                = "links"
	colFeaturedSlides       = "featured-slides"
	colOfficeHours          = "office-hours"
	docOfficerStatus        = "officer-status"
	subcolOfficers          = "officers"
	docOfficeCount          = "office-count"
	colMemberOfTheMonth     = "member-of-the-month"
	docMOTMMember           = "member"
	docMOTMPastMembers      = "past-members"
	colMeta                 = "meta"
	docMonthlyReset         = "monthly-points"
)

// NewFirebaseApp initializes the Firebase app shared by auth, Firestore,
// storage and messaging clients. An empty credentials file falls back to
// application-default credentials (and the emulator when its env vars are set).
func NewFirebaseApp(ctx context.Context, projectID, credentialsFile string) (*firebase.App, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	return app, nil
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func isDone(err error) bool {
	return err == iterator.Done
}

// deleteAll drains a query and deletes every matched document. Used for
// subcollection cleanup; Firestore does not cascade deletes.
func deleteAll(ctx context.Context, client *firestore.Client, q firestore.Query) error {
	iter := q.Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err != nil {
			if isDone(err) {
				return nil
			}
			return err
		}
		if _, err := doc.Ref.Delete(ctx); err != nil {
			return err
		}
	}
}
