// Package crypto реализует конверт шифрования записи: одноразовый ключ
// AES‑256, шифрование AES‑GCM со случайным IV и экспорт ключа в строку.
// Формат совместим с WebCrypto (AES-GCM, 12-байтовый IV, base64).
package crypto
