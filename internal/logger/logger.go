package logger

import (
	"io"
	"log"
	"os"
	"sync"

	"batch-calculator/internal/config"
)

var (
	fileMutex sync.Mutex
	INFO      *log.Logger
	ERROR     *log.Logger
	logFile   *os.File
)

func LogINFO(s string) {
	if INFO == nil {
		return
	}
	INFO.Println(s)
}

func LogERROR(s string) {
	if ERROR == nil {
		return
	}
	ERROR.Println(s)
}

type lockedFile struct {
	file *os.File
}

func (lf *lockedFile) Write(p []byte) (n int, err error) {
	fileMutex.Lock()
	defer fileMutex.Unlock()
	return lf.file.Write(p)
}

func setOutput(w io.Writer) {
	INFO = log.New(w, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	ERROR = log.New(w, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
}

// openLogFile открывает файл журнала; при ошибке возвращает fallback
func openLogFile(path string, fallback io.Writer) io.Writer {
	if path == "" {
		return fallback
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Printf("Failed to open log file: %v. Falling back to default output", err)
		return fallback
	}

	logFile = f
	return &lockedFile{file: f}
}

// InitServerLogger пишет в SERVER_LOG_FILE_PATH или в stdout
func InitServerLogger() {
	setOutput(openLogFile(config.AppConfig.ServerLogFilePath, os.Stdout))
}

// InitCLILogger пишет в CLI_LOG_FILE_PATH; без файла журнал отбрасывается,
// потому что stdout занят JSON-результатом
func InitCLILogger() {
	setOutput(openLogFile(config.AppConfig.CLILogFilePath, io.Discard))
}

func CloseLogger() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}
