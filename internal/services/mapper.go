package services

import "github.com/desertthunder/setlist/internal/models"

func mapImages(images []SpotifyImage) []models.Image {
	if len(images) == 0 {
		return nil
	}
	out := make([]models.Image, 0, len(images))
	for _, img := range images {
		out = append(out, models.Image{URL: img.URL, Height: img.Height, Width: img.Width})
	}
	return out
}

func mapUser(u SpotifyUser) *models.User {
	return &models.User{
		ID:          u.ID,
		DisplayName: u.DisplayName,
		Email:       u.Email,
		Country:     u.Country,
		Product:     u.Product,
		Images:      mapImages(u.Images),
	}
}

// mapTrack flattens a Spotify track. The first album image is the largest one Spotify returns.
func mapTrack(t SpotifyTrack) *models.Track {
	artists := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		artists = append(artists, a.Name)
	}

	track := &models.Track{
		ID:          t.ID,
		Name:        t.Name,
		Artists:     artists,
		Album:       t.Album.Name,
		URI:         t.URI,
		DurationMS:  t.DurationMS,
		ExternalURL: t.ExternalURLs.Spotify,
	}
	if len(t.Album.Images) > 0 {
		track.Image = t.Album.Images[0].URL
	}
	return track
}

func mapPlaylist(p SpotifyPlaylist) *models.Playlist {
	return &models.Playlist{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Public:      p.Public,
		URI:         p.URI,
		ExternalURL: p.ExternalURLs.Spotify,
		OwnerID:     p.Owner.ID,
	}
}
