package whatsapp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/sunshineplan/imgconv"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"google.golang.org/protobuf/proto"

	"github.com/kadigal/go-whatsapp-session-gateway/pkg/env"
)

// MediaDownload is the decoded payload of a stored media message.
type MediaDownload struct {
	Data     []byte
	MimeType string
	Filename string
}

func (s *Session) buildImageMessage(ctx context.Context, media *MediaPayload, caption string, contextInfo *waE2E.ContextInfo) (*waE2E.Message, error) {
	imageBytes := media.Data
	imageType := media.MimeType

	if imageType == "image/webp" && env.GetEnvBoolOrDefault("WHATSAPP_MEDIA_IMAGE_CONVERT_WEBP", false) {
		imgConvDecode, err := imgconv.Decode(bytes.NewReader(imageBytes))
		if err != nil {
			return nil, errors.New("Error While Decoding Convert Image Stream")
		}
		imgConvEncode := new(bytes.Buffer)
		err = imgconv.Write(imgConvEncode, imgConvDecode, &imgconv.FormatOption{Format: imgconv.PNG})
		if err != nil {
			return nil, errors.New("Error While Encoding Convert Image Stream")
		}
		imageBytes = imgConvEncode.Bytes()
		imageType = "image/png"
	}

	if env.GetEnvBoolOrDefault("WHATSAPP_MEDIA_IMAGE_COMPRESSION", false) {
		imgResizeDecode, err := imgconv.Decode(bytes.NewReader(imageBytes))
		if err != nil {
			return nil, errors.New("Error While Decoding Resize Image Stream")
		}
		imgResizeEncode := new(bytes.Buffer)
		err = imgconv.Write(imgResizeEncode,
			imgconv.Resize(imgResizeDecode, &imgconv.ResizeOption{Width: 1024}),
			&imgconv.FormatOption{})
		if err != nil {
			return nil, errors.New("Error While Encoding Resize Image Stream")
		}
		imageBytes = imgResizeEncode.Bytes()
	}

	imgThumbDecode, err := imgconv.Decode(bytes.NewReader(imageBytes))
	if err != nil {
		return nil, errors.New("Error While Decoding Thumbnail Image Stream")
	}
	imgThumbEncode := new(bytes.Buffer)
	err = imgconv.Write(imgThumbEncode,
		imgconv.Resize(imgThumbDecode, &imgconv.ResizeOption{Width: 72}),
		&imgconv.FormatOption{Format: imgconv.JPEG})
	if err != nil {
		return nil, errors.New("Error While Encoding Thumbnail Image Stream")
	}

	imageUploaded, err := s.client.Upload(ctx, imageBytes, whatsmeow.MediaImage)
	if err != nil {
		return nil, errors.New("Error While Uploading Media to WhatsApp Server")
	}
	imageThumbUploaded, err := s.client.Upload(ctx, imgThumbEncode.Bytes(), whatsmeow.MediaLinkThumbnail)
	if err != nil {
		return nil, errors.New("Error While Uploading Image Thumbnail to WhatsApp Server")
	}

	return &waE2E.Message{
		ImageMessage: &waE2E.ImageMessage{
			URL:                 proto.String(imageUploaded.URL),
			DirectPath:          proto.String(imageUploaded.DirectPath),
			Mimetype:            proto.String(imageType),
			Caption:             proto.String(caption),
			FileLength:          proto.Uint64(imageUploaded.FileLength),
			FileSHA256:          imageUploaded.FileSHA256,
			FileEncSHA256:       imageUploaded.FileEncSHA256,
			MediaKey:            imageUploaded.MediaKey,
			JPEGThumbnail:       imgThumbEncode.Bytes(),
			ThumbnailDirectPath: &imageThumbUploaded.DirectPath,
			ThumbnailSHA256:     imageThumbUploaded.FileSHA256,
			ThumbnailEncSHA256:  imageThumbUploaded.FileEncSHA256,
			ViewOnce:            proto.Bool(media.ViewOnce),
			ContextInfo:         contextInfo,
		},
	}, nil
}

func (s *Session) buildVideoMessage(ctx context.Context, media *MediaPayload, caption string, contextInfo *waE2E.ContextInfo) (*waE2E.Message, error) {
	videoUploaded, err := s.client.Upload(ctx, media.Data, whatsmeow.MediaVideo)
	if err != nil {
		return nil, errors.New("Error While Uploading Media to WhatsApp Server")
	}
	return &waE2E.Message{
		VideoMessage: &waE2E.VideoMessage{
			URL:           proto.String(videoUploaded.URL),
			DirectPath:    proto.String(videoUploaded.DirectPath),
			Mimetype:      proto.String(media.MimeType),
			Caption:       proto.String(caption),
			FileLength:    proto.Uint64(videoUploaded.FileLength),
			FileSHA256:    videoUploaded.FileSHA256,
			FileEncSHA256: videoUploaded.FileEncSHA256,
			MediaKey:      videoUploaded.MediaKey,
			GifPlayback:   proto.Bool(media.GIF),
			ViewOnce:      proto.Bool(media.ViewOnce),
			ContextInfo:   contextInfo,
		},
	}, nil
}

func (s *Session) buildAudioMessage(ctx context.Context, media *MediaPayload, contextInfo *waE2E.ContextInfo) (*waE2E.Message, error) {
	audioUploaded, err := s.client.Upload(ctx, media.Data, whatsmeow.MediaAudio)
	if err != nil {
		return nil, errors.New("Error While Uploading Media to WhatsApp Server")
	}
	return &waE2E.Message{
		AudioMessage: &waE2E.AudioMessage{
			URL:           proto.String(audioUploaded.URL),
			DirectPath:    proto.String(audioUploaded.DirectPath),
			Mimetype:      proto.String(media.MimeType),
			FileLength:    proto.Uint64(audioUploaded.FileLength),
			FileSHA256:    audioUploaded.FileSHA256,
			FileEncSHA256: audioUploaded.FileEncSHA256,
			MediaKey:      audioUploaded.MediaKey,
			PTT:           proto.Bool(media.Voice),
			ContextInfo:   contextInfo,
		},
	}, nil
}

// buildStickerMessage uploads the payload as image media and wraps it as a
// sticker. Callers should hand in webp; other image types render degraded.
func (s *Session) buildStickerMessage(ctx context.Context, media *MediaPayload) (*waE2E.Message, error) {
	stickerUploaded, err := s.client.Upload(ctx, media.Data, whatsmeow.MediaImage)
	if err != nil {
		return nil, errors.New("Error While Uploading Media to WhatsApp Server")
	}
	return &waE2E.Message{
		StickerMessage: &waE2E.StickerMessage{
			URL:           proto.String(stickerUploaded.URL),
			DirectPath:    proto.String(stickerUploaded.DirectPath),
			Mimetype:      proto.String(media.MimeType),
			FileLength:    proto.Uint64(stickerUploaded.FileLength),
			FileSHA256:    stickerUploaded.FileSHA256,
			FileEncSHA256: stickerUploaded.FileEncSHA256,
			MediaKey:      stickerUploaded.MediaKey,
		},
	}, nil
}

func (s *Session) buildDocumentMessage(ctx context.Context, media *MediaPayload, caption string, contextInfo *waE2E.ContextInfo) (*waE2E.Message, error) {
	documentUploaded, err := s.client.Upload(ctx, media.Data, whatsmeow.MediaDocument)
	if err != nil {
		return nil, errors.New("Error While Uploading Media to WhatsApp Server")
	}
	filename := media.Filename
	if filename == "" {
		filename = "file"
	}
	return &waE2E.Message{
		DocumentMessage: &waE2E.DocumentMessage{
			URL:           proto.String(documentUploaded.URL),
			DirectPath:    proto.String(documentUploaded.DirectPath),
			Mimetype:      proto.String(media.MimeType),
			FileName:      proto.String(filename),
			Caption:       proto.String(caption),
			FileLength:    proto.Uint64(documentUploaded.FileLength),
			FileSHA256:    documentUploaded.FileSHA256,
			FileEncSHA256: documentUploaded.FileEncSHA256,
			MediaKey:      documentUploaded.MediaKey,
			ContextInfo:   contextInfo,
		},
	}, nil
}

// downloadMediaURL fetches a remote file under a bounded timeout and size
// cap, deriving MIME type and filename from the response.
func (s *Session) downloadMediaURL(ctx context.Context, mediaURL string) (*MediaPayload, error) {
	parsed, err := url.Parse(mediaURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, fmt.Errorf("invalid media url %q", mediaURL)
	}

	timeout := env.GetEnvDurationOrDefault("WHATSAPP_MEDIA_DOWNLOAD_TIMEOUT", 30*time.Second)
	maxBytes := int64(env.GetEnvIntOrDefault("WHATSAPP_MEDIA_DOWNLOAD_MAX_BYTES", 50*1024*1024))

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download media: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download media: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("download media: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("download media: file exceeds %d bytes", maxBytes)
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}
	filename := path.Base(parsed.Path)
	if filename == "/" || filename == "." {
		filename = ""
	}
	return &MediaPayload{Data: data, MimeType: mimeType, Filename: filename}, nil
}

// DownloadMessageMedia decrypts the media of a stored message. Requires
// the raw protocol payload, so it only works for messages observed during
// this process lifetime or replayed through history sync.
func (s *Session) DownloadMessageMedia(ctx context.Context, chatID string, messageID string) (*MediaDownload, error) {
	_, msg, err := resolveMessageKey(s.store, s.keys, chatID, messageID)
	if err != nil {
		return nil, err
	}
	if msg == nil || msg.Raw == nil {
		return nil, ErrMessageNotFound
	}

	var (
		data     []byte
		mimeType string
		filename string
	)
	switch {
	case msg.Raw.ImageMessage != nil:
		data, err = s.client.Download(ctx, msg.Raw.ImageMessage)
		mimeType = msg.Raw.ImageMessage.GetMimetype()
	case msg.Raw.VideoMessage != nil:
		data, err = s.client.Download(ctx, msg.Raw.VideoMessage)
		mimeType = msg.Raw.VideoMessage.GetMimetype()
	case msg.Raw.AudioMessage != nil:
		data, err = s.client.Download(ctx, msg.Raw.AudioMessage)
		mimeType = msg.Raw.AudioMessage.GetMimetype()
	case msg.Raw.DocumentMessage != nil:
		data, err = s.client.Download(ctx, msg.Raw.DocumentMessage)
		mimeType = msg.Raw.DocumentMessage.GetMimetype()
		filename = msg.Raw.DocumentMessage.GetFileName()
	case msg.Raw.StickerMessage != nil:
		data, err = s.client.Download(ctx, msg.Raw.StickerMessage)
		mimeType = msg.Raw.StickerMessage.GetMimetype()
	default:
		return nil, errors.New("message does not contain downloadable media")
	}
	if err != nil {
		return nil, fmt.Errorf("download media: %w", err)
	}
	if filename == "" {
		filename = msg.Filename
	}
	return &MediaDownload{Data: data, MimeType: mimeType, Filename: filename}, nil
}
