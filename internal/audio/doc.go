// Package audio implements media.Surface on top of the system audio device.
//
// An Element downloads the assigned stream URL, decodes it in memory and
// feeds 16-bit stereo PCM at 44.1 kHz to an oto player. MP3, Ogg Vorbis,
// FLAC and WAV are supported; the decoder is chosen from the response's
// Content-Type and falls back to the file's magic bytes. Mono sources are
// upmixed and other sample rates are linearly resampled to 44.1 kHz.
//
// Commands behave like an HTML audio element: Play fires "play" at once even
// while the stream is still downloading, and playback starts when decoding
// finishes. Failures are reported as "error" events whose code tells the
// network, decode and unsupported-source cases apart. Assigning a new
// source aborts the previous download and silences its events.
package audio
