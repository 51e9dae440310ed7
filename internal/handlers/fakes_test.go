package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/playtube/backend/internal/models"
	"github.com/playtube/backend/internal/repositories"
	"github.com/playtube/backend/pkg/storage"
	"github.com/playtube/backend/validators"
)

// newTestContext builds an echo context the way the router would, with the
// request validator installed.
func newTestContext(method, target string, body io.Reader, contentType string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = validators.NewValidator()

	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func setCurrentUser(c echo.Context, user *models.User) {
	c.Set("user", user)
}

var (
	_ repositories.UserRepository         = (*fakeUserRepo)(nil)
	_ repositories.VideoRepository        = (*fakeVideoRepo)(nil)
	_ repositories.LikeRepository         = (*fakeLikeRepo)(nil)
	_ repositories.SubscriptionRepository = (*fakeSubscriptionRepo)(nil)
	_ repositories.CommentRepository      = (*fakeCommentRepo)(nil)
	_ repositories.TweetRepository        = (*fakeTweetRepo)(nil)
	_ repositories.PlaylistRepository     = (*fakePlaylistRepo)(nil)
	_ repositories.DashboardRepository    = (*fakeDashboardRepo)(nil)
	_ storage.ObjectStore                 = (*fakeObjectStore)(nil)
)

// --- user repository fake ---

type fakeUserRepo struct {
	mu       sync.Mutex
	users    map[primitive.ObjectID]*models.User
	profiles map[string]*models.ChannelProfile
	history  []models.VideoWithOwner
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:    map[primitive.ObjectID]*models.User{},
		profiles: map[string]*models.ChannelProfile{},
	}
}

func (r *fakeUserRepo) add(user *models.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.users[user.ID] = user
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == strings.ToLower(user.Email) || existing.Username == strings.ToLower(user.Username) {
			return repositories.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	user.Username = strings.ToLower(user.Username)
	user.Email = strings.ToLower(user.Email)
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	sanitized := *user
	sanitized.Password = ""
	sanitized.RefreshToken = ""
	return &sanitized, nil
}

func (r *fakeUserRepo) GetByIDWithSecrets(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if (email != "" && user.Email == strings.ToLower(email)) ||
			(username != "" && user.Username == strings.ToLower(username)) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) SetRefreshToken(ctx context.Context, id primitive.ObjectID, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	user.RefreshToken = token
	return nil
}

func (r *fakeUserRepo) ClearRefreshToken(ctx context.Context, id primitive.ObjectID) error {
	return r.SetRefreshToken(ctx, id, "")
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	user.Password = passwordHash
	return nil
}

func (r *fakeUserRepo) UpdateAccount(ctx context.Context, id primitive.ObjectID, fullName, email string) (*models.User, error) {
	r.mu.Lock()
	user, ok := r.users[id]
	if !ok {
		r.mu.Unlock()
		return nil, repositories.ErrNotFound
	}
	user.FullName = fullName
	user.Email = strings.ToLower(email)
	r.mu.Unlock()
	return r.GetByID(ctx, id)
}

func (r *fakeUserRepo) UpdateAvatar(ctx context.Context, id primitive.ObjectID, avatar models.FileRef) (*models.User, error) {
	r.mu.Lock()
	user, ok := r.users[id]
	if !ok {
		r.mu.Unlock()
		return nil, repositories.ErrNotFound
	}
	user.Avatar = avatar.URL
	user.AvatarKey = avatar.Key
	r.mu.Unlock()
	return r.GetByID(ctx, id)
}

func (r *fakeUserRepo) UpdateCoverImage(ctx context.Context, id primitive.ObjectID, cover models.FileRef) (*models.User, error) {
	r.mu.Lock()
	user, ok := r.users[id]
	if !ok {
		r.mu.Unlock()
		return nil, repositories.ErrNotFound
	}
	user.CoverImage = cover.URL
	user.CoverKey = cover.Key
	r.mu.Unlock()
	return r.GetByID(ctx, id)
}

func (r *fakeUserRepo) GetChannelProfile(ctx context.Context, username string, callerID *primitive.ObjectID) (*models.ChannelProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.profiles[strings.ToLower(username)]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *profile
	copied.IsSubscribed = copied.IsSubscribed && callerID != nil
	return &copied, nil
}

func (r *fakeUserRepo) GetWatchHistory(ctx context.Context, id primitive.ObjectID) ([]models.VideoWithOwner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return nil, repositories.ErrNotFound
	}
	return r.history, nil
}

func (r *fakeUserRepo) AddToWatchHistory(ctx context.Context, id, videoID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	filtered := []primitive.ObjectID{videoID}
	for _, existing := range user.WatchHistory {
		if existing != videoID {
			filtered = append(filtered, existing)
		}
	}
	user.WatchHistory = filtered
	return nil
}

// --- video repository fake ---

type fakeVideoRepo struct {
	mu     sync.Mutex
	videos map[primitive.ObjectID]*models.Video
}

func newFakeVideoRepo() *fakeVideoRepo {
	return &fakeVideoRepo{videos: map[primitive.ObjectID]*models.Video{}}
}

func (r *fakeVideoRepo) add(video *models.Video) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if video.ID.IsZero() {
		video.ID = primitive.NewObjectID()
	}
	r.videos[video.ID] = video
}

func (r *fakeVideoRepo) Create(ctx context.Context, video *models.Video) error {
	video.CreatedAt = time.Now()
	video.UpdatedAt = video.CreatedAt
	r.add(video)
	return nil
}

func (r *fakeVideoRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	video, ok := r.videos[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *video
	return &copied, nil
}

func (r *fakeVideoRepo) UpdateDetails(ctx context.Context, id primitive.ObjectID, title, description string, thumbnail *models.FileRef) (*models.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	video, ok := r.videos[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if title != "" {
		video.Title = title
	}
	if description != "" {
		video.Description = description
	}
	if thumbnail != nil {
		video.Thumbnail = *thumbnail
	}
	copied := *video
	return &copied, nil
}

func (r *fakeVideoRepo) SetPublished(ctx context.Context, id primitive.ObjectID, published bool) (*models.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	video, ok := r.videos[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	video.IsPublished = published
	copied := *video
	return &copied, nil
}

func (r *fakeVideoRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.videos[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.videos, id)
	return nil
}

func (r *fakeVideoRepo) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	video, ok := r.videos[id]
	if !ok {
		return repositories.ErrNotFound
	}
	video.Views++
	return nil
}

func (r *fakeVideoRepo) List(ctx context.Context, opts models.VideoListOptions) ([]models.VideoWithOwner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	listed := []models.VideoWithOwner{}
	for _, video := range r.videos {
		if !video.IsPublished {
			continue
		}
		if opts.OwnerID != nil && video.Owner != *opts.OwnerID {
			continue
		}
		listed = append(listed, models.VideoWithOwner{Video: *video})
	}
	return listed, nil
}

func (r *fakeVideoRepo) GetByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owned := []models.Video{}
	for _, video := range r.videos {
		if video.Owner == ownerID {
			owned = append(owned, *video)
		}
	}
	return owned, nil
}

// --- like repository fake ---

// fakeLikeRepo mirrors the store's uniqueness guarantee: one record per
// (liker, kind, target), toggled under a single lock.
type fakeLikeRepo struct {
	mu      sync.Mutex
	records map[string]*models.Like
	liked   []models.LikedVideo
}

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{records: map[string]*models.Like{}}
}

func likeKey(likerID primitive.ObjectID, kind models.LikeKind, targetID primitive.ObjectID) string {
	return fmt.Sprintf("%s/%s/%s", likerID.Hex(), kind, targetID.Hex())
}

func (r *fakeLikeRepo) Toggle(ctx context.Context, likerID primitive.ObjectID, kind models.LikeKind, targetID primitive.ObjectID) (*models.ToggleResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := likeKey(likerID, kind, targetID)
	if existing, ok := r.records[key]; ok {
		delete(r.records, key)
		return &models.ToggleResult{State: models.ToggleOff, Record: existing}, nil
	}

	record := &models.Like{
		ID:        primitive.NewObjectID(),
		LikedBy:   likerID,
		CreatedAt: time.Now(),
	}
	switch kind {
	case models.LikeKindVideo:
		record.Video = &targetID
	case models.LikeKindComment:
		record.Comment = &targetID
	case models.LikeKindTweet:
		record.Tweet = &targetID
	}
	r.records[key] = record
	return &models.ToggleResult{State: models.ToggleOn, Record: record}, nil
}

func (r *fakeLikeRepo) GetLikedVideos(ctx context.Context, likerID primitive.ObjectID, page, limit int64) ([]models.LikedVideo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	start := (page - 1) * limit
	if start >= int64(len(r.liked)) {
		return []models.LikedVideo{}, nil
	}
	end := start + limit
	if end > int64(len(r.liked)) {
		end = int64(len(r.liked))
	}
	return r.liked[start:end], nil
}

func (r *fakeLikeRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// --- subscription repository fake ---

type fakeSubscriptionRepo struct {
	mu      sync.Mutex
	records map[string]*models.Subscription
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{records: map[string]*models.Subscription{}}
}

func subscriptionKey(subscriberID, channelID primitive.ObjectID) string {
	return subscriberID.Hex() + "/" + channelID.Hex()
}

func (r *fakeSubscriptionRepo) Toggle(ctx context.Context, subscriberID, channelID primitive.ObjectID) (*models.ToggleResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := subscriptionKey(subscriberID, channelID)
	if existing, ok := r.records[key]; ok {
		delete(r.records, key)
		return &models.ToggleResult{State: models.ToggleOff, Record: existing}, nil
	}

	record := &models.Subscription{
		ID:         primitive.NewObjectID(),
		Subscriber: subscriberID,
		Channel:    channelID,
		CreatedAt:  time.Now(),
	}
	r.records[key] = record
	return &models.ToggleResult{State: models.ToggleOn, Record: record}, nil
}

func (r *fakeSubscriptionRepo) GetChannelSubscribers(ctx context.Context, channelID primitive.ObjectID) ([]models.OwnerInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	subscribers := []models.OwnerInfo{}
	for _, record := range r.records {
		if record.Channel == channelID {
			subscribers = append(subscribers, models.OwnerInfo{ID: record.Subscriber})
		}
	}
	return subscribers, nil
}

func (r *fakeSubscriptionRepo) GetSubscribedChannels(ctx context.Context, subscriberID primitive.ObjectID) ([]models.OwnerInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	channels := []models.OwnerInfo{}
	for _, record := range r.records {
		if record.Subscriber == subscriberID {
			channels = append(channels, models.OwnerInfo{ID: record.Channel})
		}
	}
	return channels, nil
}

func (r *fakeSubscriptionRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// --- comment repository fake ---

type fakeCommentRepo struct {
	mu       sync.Mutex
	comments map[primitive.ObjectID]*models.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: map[primitive.ObjectID]*models.Comment{}}
}

func (r *fakeCommentRepo) add(comment *models.Comment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if comment.ID.IsZero() {
		comment.ID = primitive.NewObjectID()
	}
	r.comments[comment.ID] = comment
}

func (r *fakeCommentRepo) Create(ctx context.Context, comment *models.Comment) error {
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt
	r.add(comment)
	return nil
}

func (r *fakeCommentRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment, ok := r.comments[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *comment
	return &copied, nil
}

func (r *fakeCommentRepo) UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment, ok := r.comments[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	comment.Content = content
	copied := *comment
	return &copied, nil
}

func (r *fakeCommentRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comments[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.comments, id)
	return nil
}

func (r *fakeCommentRepo) GetByVideo(ctx context.Context, videoID primitive.ObjectID, page, limit int64) ([]models.CommentWithOwner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	listed := []models.CommentWithOwner{}
	for _, comment := range r.comments {
		if comment.Video == videoID {
			listed = append(listed, models.CommentWithOwner{Comment: *comment})
		}
	}
	return listed, nil
}

// --- tweet repository fake ---

type fakeTweetRepo struct {
	mu     sync.Mutex
	tweets map[primitive.ObjectID]*models.Tweet
}

func newFakeTweetRepo() *fakeTweetRepo {
	return &fakeTweetRepo{tweets: map[primitive.ObjectID]*models.Tweet{}}
}

func (r *fakeTweetRepo) add(tweet *models.Tweet) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tweet.ID.IsZero() {
		tweet.ID = primitive.NewObjectID()
	}
	r.tweets[tweet.ID] = tweet
}

func (r *fakeTweetRepo) Create(ctx context.Context, tweet *models.Tweet) error {
	tweet.CreatedAt = time.Now()
	tweet.UpdatedAt = tweet.CreatedAt
	r.add(tweet)
	return nil
}

func (r *fakeTweetRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Tweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tweet, ok := r.tweets[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *tweet
	return &copied, nil
}

func (r *fakeTweetRepo) UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (*models.Tweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tweet, ok := r.tweets[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	tweet.Content = content
	copied := *tweet
	return &copied, nil
}

func (r *fakeTweetRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tweets[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.tweets, id)
	return nil
}

func (r *fakeTweetRepo) GetByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Tweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owned := []models.Tweet{}
	for _, tweet := range r.tweets {
		if tweet.Owner == ownerID {
			owned = append(owned, *tweet)
		}
	}
	return owned, nil
}

// --- playlist repository fake ---

type fakePlaylistRepo struct {
	mu        sync.Mutex
	playlists map[primitive.ObjectID]*models.Playlist
}

func newFakePlaylistRepo() *fakePlaylistRepo {
	return &fakePlaylistRepo{playlists: map[primitive.ObjectID]*models.Playlist{}}
}

func (r *fakePlaylistRepo) add(playlist *models.Playlist) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if playlist.ID.IsZero() {
		playlist.ID = primitive.NewObjectID()
	}
	if playlist.Videos == nil {
		playlist.Videos = []primitive.ObjectID{}
	}
	r.playlists[playlist.ID] = playlist
}

func (r *fakePlaylistRepo) Create(ctx context.Context, playlist *models.Playlist) error {
	playlist.CreatedAt = time.Now()
	playlist.UpdatedAt = playlist.CreatedAt
	r.add(playlist)
	return nil
}

func (r *fakePlaylistRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Playlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	playlist, ok := r.playlists[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *playlist
	copied.Videos = append([]primitive.ObjectID{}, playlist.Videos...)
	return &copied, nil
}

func (r *fakePlaylistRepo) GetByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Playlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owned := []models.Playlist{}
	for _, playlist := range r.playlists {
		if playlist.Owner == ownerID {
			owned = append(owned, *playlist)
		}
	}
	return owned, nil
}

func (r *fakePlaylistRepo) UpdateDetails(ctx context.Context, id primitive.ObjectID, name, description string) (*models.Playlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	playlist, ok := r.playlists[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if name != "" {
		playlist.Name = name
	}
	if description != "" {
		playlist.Description = description
	}
	copied := *playlist
	return &copied, nil
}

func (r *fakePlaylistRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.playlists[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.playlists, id)
	return nil
}

func (r *fakePlaylistRepo) AddVideo(ctx context.Context, id, videoID primitive.ObjectID) (*models.Playlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	playlist, ok := r.playlists[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	present := false
	for _, existing := range playlist.Videos {
		if existing == videoID {
			present = true
			break
		}
	}
	if !present {
		playlist.Videos = append(playlist.Videos, videoID)
	}
	copied := *playlist
	copied.Videos = append([]primitive.ObjectID{}, playlist.Videos...)
	return &copied, nil
}

func (r *fakePlaylistRepo) RemoveVideo(ctx context.Context, id, videoID primitive.ObjectID) (*models.Playlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	playlist, ok := r.playlists[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	remaining := []primitive.ObjectID{}
	for _, existing := range playlist.Videos {
		if existing != videoID {
			remaining = append(remaining, existing)
		}
	}
	playlist.Videos = remaining
	copied := *playlist
	copied.Videos = append([]primitive.ObjectID{}, playlist.Videos...)
	return &copied, nil
}

// --- dashboard repository fake ---

type fakeDashboardRepo struct {
	stats map[primitive.ObjectID]*models.ChannelStats
}

func newFakeDashboardRepo() *fakeDashboardRepo {
	return &fakeDashboardRepo{stats: map[primitive.ObjectID]*models.ChannelStats{}}
}

func (r *fakeDashboardRepo) GetChannelStats(ctx context.Context, ownerID primitive.ObjectID) (*models.ChannelStats, error) {
	stats, ok := r.stats[ownerID]
	if !ok {
		return &models.ChannelStats{}, nil
	}
	return stats, nil
}

// --- object store fake ---

type fakeObjectStore struct {
	mu      sync.Mutex
	uploads int
	deleted []string
}

func (s *fakeObjectStore) Upload(ctx context.Context, folder string, body io.Reader, size int64, contentType string) (*storage.UploadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads++
	key := fmt.Sprintf("%s/object-%d", folder, s.uploads)
	return &storage.UploadResult{Key: key, URL: "https://cdn.example.com/" + key}, nil
}

func (s *fakeObjectStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, key)
	return nil
}

// multipartForm builds a multipart body with text fields and small in-memory
// files keyed by field name.
func multipartForm(fields map[string]string, files map[string]string) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}
	for name, content := range files {
		part, err := writer.CreateFormFile(name, name+".bin")
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write([]byte(content)); err != nil {
			return nil, "", err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return &buf, writer.FormDataContentType(), nil
}

// decodeEnvelope unwraps the standard response envelope written by a handler.
func decodeEnvelope(rec *httptest.ResponseRecorder) (map[string]interface{}, error) {
	var envelope map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		return nil, err
	}
	return envelope, nil
}
