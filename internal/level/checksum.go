package level

// Таблица CRC-32/MPEG-2: полином 0x04C11DB7, сдвиг старшим битом вперёд
var crcTable = func() (table [256]uint32) {
	for i := range table {
		c := uint32(i) << 24
		for bit := 0; bit < 8; bit++ {
			if c&0x80000000 != 0 {
				c = c<<1 ^ 0x04C11DB7
			} else {
				c <<= 1
			}
		}
		table[i] = c
	}
	return
}()

// Checksum возвращает CRC-32/MPEG-2 сетки тайлов (начальное значение
// 0xFFFFFFFF, без финального XOR)
func (l *Level) Checksum() uint32 {
	crc := uint32(0xFFFFFFFF)
	for _, t := range l.blocks {
		crc = crcUpdate(crc, byte(t))
	}
	return crc
}

func crcUpdate(crc uint32, b byte) uint32 {
	return crc<<8 ^ crcTable[byte(crc>>24)^b]
}
