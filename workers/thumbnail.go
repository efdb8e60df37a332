package workers

import (
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/camden-git/photosharebackend/config"
	"github.com/camden-git/photosharebackend/repository"
	"github.com/camden-git/photosharebackend/utils"
)

type ThumbnailJob struct {
	PhotoID          uint
	OriginalFullPath string
}

// ThumbnailGenerator runs a small worker pool that produces thumbnails for
// freshly uploaded photos and records the result on the photo row.
type ThumbnailGenerator struct {
	JobQueue  chan ThumbnailJob
	Config    config.Config
	PhotoRepo repository.PhotoRepositoryInterface
	Wg        sync.WaitGroup
	StopChan  chan struct{}
	Pending   map[uint]bool
	Mutex     sync.Mutex
}

func NewThumbnailGenerator(cfg config.Config, photoRepo repository.PhotoRepositoryInterface, queueSize, numWorkers int) *ThumbnailGenerator {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}

	gen := &ThumbnailGenerator{
		JobQueue:  make(chan ThumbnailJob, queueSize),
		Config:    cfg,
		PhotoRepo: photoRepo,
		StopChan:  make(chan struct{}),
		Pending:   make(map[uint]bool),
	}

	gen.Wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go gen.worker(i)
	}
	log.Printf("started %d thumbnail worker(s) with queue size %d", numWorkers, queueSize)

	return gen
}

func (tg *ThumbnailGenerator) worker(id int) {
	defer tg.Wg.Done()
	log.Printf("thumbnail worker %d started", id)
	for {
		select {
		case job, ok := <-tg.JobQueue:
			if !ok {
				log.Printf("thumbnail worker %d stopping: Job queue closed", id)
				return
			}
			tg.processJob(job)
			tg.Mutex.Lock()
			delete(tg.Pending, job.PhotoID)
			tg.Mutex.Unlock()

		case <-tg.StopChan:
			log.Printf("thumbnail worker %d stopping: stop signal received", id)
			return
		}
	}
}

func (tg *ThumbnailGenerator) processJob(job ThumbnailJob) {
	if _, err := os.Stat(job.OriginalFullPath); os.IsNotExist(err) {
		log.Printf("original file %s not found, skipping thumbnail generation", job.OriginalFullPath)
		return
	} else if err != nil {
		log.Printf("error stating original file %s before thumbnail generation: %v", job.OriginalFullPath, err)
	}

	thumbFilename, err := utils.GenerateThumbnail(
		job.OriginalFullPath,
		tg.Config.ThumbnailsPath,
		tg.Config.ThumbnailMaxSize,
	)
	if err != nil {
		log.Printf("ERROR generating thumbnail for photo %d (%s): %v", job.PhotoID, job.OriginalFullPath, err)
		return
	}

	// store the path relative to the media storage root, like photo files
	relPath := filepath.ToSlash(filepath.Join(filepath.Base(tg.Config.ThumbnailsPath), thumbFilename))
	if err := tg.PhotoRepo.UpdateThumbnailPath(job.PhotoID, &relPath); err != nil {
		log.Printf("ERROR updating thumbnail DB record for photo %d: %v", job.PhotoID, err)
		return
	}

	log.Printf("successfully generated thumbnail for photo %d", job.PhotoID)
}

func (tg *ThumbnailGenerator) QueueJob(job ThumbnailJob) bool {
	tg.Mutex.Lock()
	if tg.Pending[job.PhotoID] {
		tg.Mutex.Unlock()
		log.Printf("thumbnail generation for photo %d already pending, skipping queue", job.PhotoID)
		return false
	}

	tg.Pending[job.PhotoID] = true
	tg.Mutex.Unlock()

	select {
	case tg.JobQueue <- job:
		return true
	default:
		log.Printf("WARNING: thumbnail job queue full, failed to queue job for photo %d", job.PhotoID)
		tg.Mutex.Lock()
		delete(tg.Pending, job.PhotoID)
		tg.Mutex.Unlock()
		return false
	}
}

func (tg *ThumbnailGenerator) Stop() {
	log.Println("stopping thumbnail generator...")
	close(tg.StopChan)
	tg.Wg.Wait()
	log.Println("all thumbnail workers stopped")
}
