package video

import (
	"context"
	"log/slog"

	"github.com/foxseedlab/mensetsukan/internal/config"
	"github.com/foxseedlab/mensetsukan/internal/video"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*video.Assembler, error) {
		c := do.MustInvoke[*config.Config](i)
		store := NewDiskStore(c.RecordingsDir)
		merger := NewFFmpegMerger(c.FFmpegPath, c.RecordingsDir)
		if !c.PublishesVideo() {
			return video.NewAssembler(store, merger, nil), nil
		}
		publisher, err := NewS3Publisher(context.Background(), S3Config{
			Bucket:    c.VideoS3Bucket,
			Region:    c.VideoS3Region,
			KeyPrefix: c.VideoS3KeyPrefix,
		})
		if err != nil {
			return nil, err
		}
		slog.Info("video artifacts will be published to s3", "bucket", c.VideoS3Bucket)
		return video.NewAssembler(store, merger, publisher), nil
	})
}
